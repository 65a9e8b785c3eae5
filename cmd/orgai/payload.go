package main

import (
	"fmt"

	"github.com/atlas-foundry/orgai-go-sdk/orgai"
	"github.com/spf13/cobra"
)

var (
	payloadBlock  int
	payloadRender string
)

func getPayloadCommand() *cobra.Command {
	payloadCmd := &cobra.Command{
		Use:   "payload FILE",
		Short: "Print the assembled request payload without dispatching it",
		Long: `Assembles the payload an llm block would dispatch, including resolved
configuration and reconstructed session history, and prints it.

Example:
  orgai payload notes.org --block 2
  orgai payload notes.org --render org`,
		Args: cobra.ExactArgs(1),
		RunE: runPayload,
	}
	payloadCmd.Flags().IntVar(&payloadBlock, "block", 1, "1-based index of the llm block to assemble")
	payloadCmd.Flags().StringVar(&payloadRender, "render", "json", "payload renderer: json or org")
	return payloadCmd
}

func runPayload(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine()
	if err != nil {
		return err
	}
	buf, blocks, err := loadLLMBlocks(args[0])
	if err != nil {
		return err
	}
	block, err := pickBlock(blocks, payloadBlock)
	if err != nil {
		return err
	}
	renderer, err := orgai.RendererFor(payloadRender)
	if err != nil {
		return err
	}
	out, err := renderer.Render(eng.BuildPayload(buf, block.Pos, block.Body, block.Params))
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

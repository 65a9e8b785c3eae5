package main

import (
	"fmt"
	"os"

	"github.com/atlas-foundry/orgai-go-sdk/orgai"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/spf13/cobra"
)

var (
	runBlock int
	runOut   string
	runWait  bool
)

func getRunCommand() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Execute an llm block and patch the response into the file",
		Long: `Executes one llm block: the session history before the block becomes
the conversation, the block body the final user message. The response
replaces the pending token in the results section.

Dry-run blocks print the assembled payload instead of dispatching.

Example:
  orgai run notes.org
  orgai run notes.org --block 2 --out answered.org`,
		Args: cobra.ExactArgs(1),
		RunE: runRun,
	}
	runCmd.Flags().IntVar(&runBlock, "block", 1, "1-based index of the llm block to execute")
	runCmd.Flags().StringVar(&runOut, "out", "", "write the updated document here instead of in place")
	runCmd.Flags().BoolVar(&runWait, "wait", true, "wait for the completion before writing")
	return runCmd
}

func runRun(cmd *cobra.Command, args []string) error {
	path := args[0]
	eng, err := buildEngine()
	if err != nil {
		return err
	}
	buf, blocks, err := loadLLMBlocks(path)
	if err != nil {
		return err
	}
	block, err := pickBlock(blocks, runBlock)
	if err != nil {
		return err
	}

	out, err := eng.ExecuteBlock(cmd.Context(), buf, block)
	if err != nil {
		return err
	}
	if !orgai.IsPendingToken(out) {
		fmt.Println(out)
		return nil
	}

	ancli.Okf("dispatched block %d\n", runBlock)
	if runWait {
		if err := eng.Wait(cmd.Context()); err != nil {
			return fmt.Errorf("failed waiting for completion: %w", err)
		}
	}
	target := runOut
	if target == "" {
		target = path
	}
	if err := os.WriteFile(target, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	ancli.PrintOK(fmt.Sprintf("updated %s\n", target))
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/atlas-foundry/orgai-go-sdk/orgai"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/spf13/cobra"
)

var (
	rootPresets string
	rootBackend string
	rootModel   string
	rootDebug   bool
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		ancli.PrintErr(err.Error() + "\n")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orgai",
		Short: "Run LLM conversations kept in org-mode documents",
		Long: `orgai scans org documents for llm source blocks, rebuilds session
history into chat turns, dispatches completion requests and patches
the responses back into the document.

Example:
  orgai blocks notes.org
  orgai payload notes.org --block 2
  orgai run notes.org --block 2`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if rootDebug {
				os.Setenv("DEBUG", "1")
			}
			ancli.SetupSlog()
		},
	}
	rootCmd.PersistentFlags().StringVar(&rootPresets, "presets", "", "path to a YAML preset file")
	rootCmd.PersistentFlags().StringVar(&rootBackend, "backend", "", "default backend for blocks that name none")
	rootCmd.PersistentFlags().StringVar(&rootModel, "model", "", "default model for blocks that name none")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(getRunCommand())
	rootCmd.AddCommand(getPayloadCommand())
	rootCmd.AddCommand(getSessionsCommand())
	rootCmd.AddCommand(getBlocksCommand())
	return rootCmd
}

func buildEngine() (*orgai.Engine, error) {
	opts := []orgai.EngineOption{
		orgai.WithDefaults(orgai.Config{Backend: rootBackend, Model: rootModel}),
	}
	if rootPresets != "" {
		store, err := orgai.LoadPresets(rootPresets)
		if err != nil {
			return nil, err
		}
		opts = append(opts, orgai.WithPresets(store))
	}
	return orgai.NewEngine(opts...), nil
}

func loadLLMBlocks(path string) (*orgai.TextBuffer, []orgai.Block, error) {
	buf, err := orgai.ReadDocument(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var blocks []orgai.Block
	for _, b := range orgai.ScanBlocks(buf, buf.Len()) {
		if b.Lang == orgai.LangLLM {
			blocks = append(blocks, b)
		}
	}
	return buf, blocks, nil
}

func pickBlock(blocks []orgai.Block, n int) (orgai.Block, error) {
	if len(blocks) == 0 {
		return orgai.Block{}, fmt.Errorf("document has no %s blocks", orgai.LangLLM)
	}
	if n < 1 || n > len(blocks) {
		return orgai.Block{}, fmt.Errorf("block %d out of range, document has %d %s blocks", n, len(blocks), orgai.LangLLM)
	}
	return blocks[n-1], nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

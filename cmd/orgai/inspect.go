package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/atlas-foundry/orgai-go-sdk/orgai"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/spf13/cobra"
)

func getSessionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions FILE",
		Short: "List the conversation sessions found in a document",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessions,
	}
}

func runSessions(cmd *cobra.Command, args []string) error {
	buf, err := orgai.ReadDocument(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	sessions := orgai.Sessions(buf, buf.Len())
	if len(sessions) == 0 {
		ancli.PrintWarn("no sessions found\n")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tBLOCKS\tANSWERED")
	for _, s := range sessions {
		blocks := orgai.SessionBlocks(buf, s, buf.Len())
		answered := 0
		for _, b := range blocks {
			if b.HasResult() {
				answered++
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%d\n", s, len(blocks), answered)
	}
	return w.Flush()
}

func getBlocksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "blocks FILE",
		Short: "List the source blocks found in a document",
		Args:  cobra.ExactArgs(1),
		RunE:  runBlocks,
	}
}

func runBlocks(cmd *cobra.Command, args []string) error {
	buf, err := orgai.ReadDocument(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	blocks := orgai.ScanBlocks(buf, buf.Len())
	if len(blocks) == 0 {
		ancli.PrintWarn("no source blocks found\n")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "N\tPOS\tLANG\tNAME\tSESSION\tRESULT")
	n := 0
	for _, b := range blocks {
		n++
		result := "-"
		if b.HasResult() {
			result = "yes"
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n", n, b.Pos, b.Lang, orDash(b.Name), orDash(b.Session()), result)
	}
	return w.Flush()
}

//go:build ignore

// payload_bridge dumps the request payload the SDK assembles for llm blocks
// in an org file, so it can be diffed against what an editor client sends.
// Run with: go run tools/payload_bridge.go --render json --file orgai/testdata/examples/conversation.org
package main

import (
	"flag"
	"fmt"
	"os"

	sdk "github.com/atlas-foundry/orgai-go-sdk/orgai"
)

func main() {
	file := flag.String("file", "", "org file to scan")
	render := flag.String("render", "json", "json|org")
	block := flag.Int("block", 0, "1-based block to dump, 0 for all")
	flag.Parse()
	if *file == "" {
		fmt.Println("missing --file")
		os.Exit(1)
	}
	buf, err := sdk.ReadDocument(*file)
	if err != nil {
		panic(err)
	}
	renderer, err := sdk.RendererFor(*render)
	if err != nil {
		panic(err)
	}
	var blocks []sdk.Block
	for _, b := range sdk.ScanBlocks(buf, buf.Len()) {
		if b.Lang == sdk.LangLLM {
			blocks = append(blocks, b)
		}
	}
	if len(blocks) == 0 {
		fmt.Println("no llm blocks in", *file)
		os.Exit(1)
	}
	if *block != 0 {
		if *block < 1 || *block > len(blocks) {
			fmt.Printf("block %d out of range, file has %d\n", *block, len(blocks))
			os.Exit(1)
		}
		blocks = blocks[*block-1 : *block]
	}
	eng := sdk.NewEngine()
	for i, b := range blocks {
		payload := eng.BuildPayload(buf, b.Pos, b.Body, b.Params)
		out, err := renderer.Render(payload)
		if err != nil {
			panic(err)
		}
		fmt.Printf("# block %d (pos %d)\n%s\n", i+1, b.Pos, out)
	}
}

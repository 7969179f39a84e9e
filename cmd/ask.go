package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xhad/kbase/pkg/rag"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Chat with the knowledge base",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		d, err := newDeps(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		svc, err := newRAG(cmd, d)
		if err != nil {
			return err
		}

		color.Cyan("\nChat with your knowledge base (type 'exit' to quit)")

		scanner := bufio.NewScanner(os.Stdin)
		userPrompt := color.New(color.FgGreen).PrintfFunc()
		assistantPrompt := color.New(color.FgCyan).PrintfFunc()

		for {
			userPrompt("\nYou: ")
			if !scanner.Scan() {
				break
			}

			prompt := strings.TrimSpace(scanner.Text())
			if strings.ToLower(prompt) == "exit" {
				break
			}
			if prompt == "" {
				continue
			}

			spinner := getSpinner("🤖 Generating response...")
			response, err := svc.Ask(ctx, prompt)
			spinner.Finish()
			fmt.Print("\r")

			if err != nil {
				color.Red("Error: %v\n", err)
				continue
			}
			assistantPrompt("Assistant: %s\n", response)
		}
		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func newRAG(cmd *cobra.Command, d *deps) (*rag.Service, error) {
	generator, err := newGenerator(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}
	return rag.NewWithConfig(rag.ServiceConfig{
		Embedder:   d.embedder,
		Store:      d.store,
		Generator:  generator,
		MatchCount: cfg.Database.MatchCount,
	})
}

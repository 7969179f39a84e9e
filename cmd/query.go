package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xhad/kbase/internal/models"
	"github.com/xhad/kbase/pkg/query"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Answer a question and check a freelancer name against the knowledge base",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()
		return runQuery(cmd.Context(), d, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(ctx context.Context, d *deps, in io.Reader, out io.Writer) error {
	rows, err := d.store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}
	return interactiveQuery(ctx, query.NewAnswerer(nil), rows, in, out)
}

func interactiveQuery(ctx context.Context, answerer *query.Answerer, rows []models.Row, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	readLine := func(prompt string) string {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return ""
		}
		return strings.TrimSpace(scanner.Text())
	}

	fmt.Fprintln(out, "\n--- AI Query Test ---")
	question := readLine("Enter your question for the AI: ")
	answer, err := answerer.Answer(ctx, question, rows)
	if err != nil {
		return fmt.Errorf("failed to answer query: %w", err)
	}
	fmt.Fprintln(out, answer)

	fmt.Fprintln(out, "\n--- Freelancer Existence Check ---")
	name := readLine("Enter a freelancer name to check if they exist: ")
	if exists, fullName := query.FreelancerExistsByName(rows, name); exists {
		fmt.Fprintf(out, "Yes, there is a freelancer called %s on this platform.\n", fullName)
	} else {
		fmt.Fprintf(out, "No, there is no freelancer called %s on this platform.\n", name)
	}
	return scanner.Err()
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joelkehle/litreview/internal/render"
)

var renderTitle string

var renderCmd = &cobra.Command{
	Use:   "render <report.md> <output.pdf>",
	Short: "Render an existing Markdown report to PDF",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read report: %w", err)
		}

		title := renderTitle
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}

		pdf, err := render.NewRenderer().PDF(cmd.Context(), string(report), title)
		if err != nil {
			return fmt.Errorf("render pdf: %w", err)
		}
		if err := os.WriteFile(args[1], pdf, 0o644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		fmt.Printf("PDF written to %s\n", args[1])
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "document title (default: report file name)")
	rootCmd.AddCommand(renderCmd)
}

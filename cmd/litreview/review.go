package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joelkehle/litreview/internal/render"
)

var (
	reviewOutput string
	reviewPDF    bool
)

var reviewCmd = &cobra.Command{
	Use:   "review <query>",
	Short: "Run the full review and write the report to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, cleanup, err := buildRunner(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := runner.Run(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if err := os.WriteFile(reviewOutput, []byte(result.Report), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("Report written to %s\n", reviewOutput)

		if reviewPDF {
			pdf, err := render.NewRenderer().PDF(cmd.Context(), result.Report, args[0])
			if err != nil {
				return fmt.Errorf("render pdf: %w", err)
			}
			pdfPath := strings.TrimSuffix(reviewOutput, filepath.Ext(reviewOutput)) + ".pdf"
			if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
				return fmt.Errorf("write pdf: %w", err)
			}
			fmt.Printf("PDF written to %s\n", pdfPath)
		}
		return nil
	},
}

func init() {
	reviewCmd.Flags().StringVarP(&reviewOutput, "output", "o", "report.md", "path for the Markdown report")
	reviewCmd.Flags().BoolVar(&reviewPDF, "pdf", false, "also render the report to PDF")
	rootCmd.AddCommand(reviewCmd)
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joelkehle/litreview/internal/synthesis"
)

var consensusCmd = &cobra.Command{
	Use:   "consensus <yes/no question>",
	Short: "Quantify how the literature answers a yes/no question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, cleanup, err := buildRunner(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		c, err := runner.Consensus(cmd.Context(), args[0])
		if errors.Is(err, synthesis.ErrInsufficientData) {
			return fmt.Errorf("too few papers address the question directly to quantify consensus (need at least 5)")
		}
		if err != nil {
			return err
		}

		fmt.Printf("Question: %s\n\n", c.Question)
		fmt.Printf("  YES      %5.1f%%\n", c.YesPercent)
		fmt.Printf("  NO       %5.1f%%\n", c.NoPercent)
		fmt.Printf("  MIXED    %5.1f%%\n", c.MixedPercent)
		fmt.Printf("  POSSIBLY %5.1f%%\n", c.PossiblyPercent)
		fmt.Printf("\nBased on %d papers (confidence %.2f)\n", c.TotalPapers, c.Confidence)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(consensusCmd)
}

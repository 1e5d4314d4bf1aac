package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Discover candidate papers without screening them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, cleanup, err := buildRunner(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := runner.Search(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Found %d papers\n\n", result.Total)
		for i, p := range result.Papers {
			year := "n.d."
			if p.Year != nil {
				year = fmt.Sprintf("%d", *p.Year)
			}
			fmt.Printf("%3d. [%s] %s (%d citations)\n", i+1, year, strings.TrimSpace(p.Title), p.CitationCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

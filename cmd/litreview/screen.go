package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var screenCmd = &cobra.Command{
	Use:   "screen <query>",
	Short: "Discover papers and run the screening funnel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, cleanup, err := buildRunner(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		papers, err := runner.Screen(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%d papers passed screening\n\n", len(papers))
		for i, p := range papers {
			fmt.Printf("%3d. %s\n", i+1, strings.TrimSpace(p.Title))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)
}

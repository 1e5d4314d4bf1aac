package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var gapsCmd = &cobra.Command{
	Use:   "gaps <query>",
	Short: "Map under-researched theme and technology intersections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, cleanup, err := buildRunner(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := runner.Gaps(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Themes:       %v\n", result.Themes)
		fmt.Printf("Technologies: %v\n\n", result.Technologies)
		fmt.Printf("%d research gaps found\n\n", len(result.Gaps))
		for i, g := range result.Gaps {
			fmt.Printf("%3d. %s x %s\n     %s\n", i+1, g.Theme, g.Tech, g.Opportunity)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gapsCmd)
}

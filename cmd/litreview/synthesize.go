package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize <query>",
	Short: "Run the full pipeline and print the report to stdout",
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
		fmt.Println(result.Report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(synthesizeCmd)
}

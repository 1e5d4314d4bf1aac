// Package main is the entry point for the litreview CLI: automated
// literature review with consensus analysis and gap mapping.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfgFile       string
	traceEndpoint string
)

var rootCmd = &cobra.Command{
	Use:   "litreview",
	Short: "Automated systematic literature review with consensus analysis",
	Long: `litreview automates a literature-review workflow: given a research query it
surveys Semantic Scholar and PubMed, expands the search with LLM-generated
query variants, explores citation graphs, screens results for quality and
relevance, and synthesizes evidence, consensus, and gap analyses into a
Markdown report.

Each stage is also exposed as its own subcommand (search, screen,
synthesize, consensus, gaps) for running the pipeline piecewise.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./litreview.yaml or ~/.config/litreview/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&traceEndpoint, "trace-endpoint", "", "OTLP endpoint; setting it enables tracing")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

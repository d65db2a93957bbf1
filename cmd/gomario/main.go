// gomario runs agents on Super Mario Bros. environments.
//
// Usage:
//
//	gomario list                  - List registered environment IDs
//	gomario play <id>             - Run a random agent on an environment
//	gomario play --config <file>  - Run on an environment described by YAML
//	gomario results [id]          - Show recorded episode results
//
// Global flags:
//
//	--log-level <level>  - debug, info, warn or error (default: info)
//	--db <path>          - Results database (default: ~/.gomario/results.db)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	flagLogLevel string
	flagDBPath   string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "gomario",
	})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gomario",
	Short: "Run agents on Super Mario Bros. environments",
	Long: `gomario creates Super Mario Bros. environments by ID, runs agents
on them and records the results of each episode.

Examples:
  gomario list
  gomario play SuperMarioBros-1-1-Vanilla --steps 5000
  gomario play --config ./env.yaml --frames ./frames
  gomario results SuperMarioBros-1-1-Vanilla`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db",
		"~/.gomario/results.db", "Path to results database")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(resultsCmd)
}

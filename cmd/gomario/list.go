package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samuelfneumann/gomario/environment/envconfig"
)

var flagListFilter string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered environment IDs",
	Long: `Shows every registered environment ID. IDs name a game, an
optional stage and a ROM mode, e.g. SuperMarioBros-4-2-Pixel.`,
	Args: cobra.NoArgs,
	Run:  runList,
}

func init() {
	listCmd.Flags().StringVar(&flagListFilter, "filter", "",
		"Only list IDs containing this text")
}

func runList(cmd *cobra.Command, args []string) {
	count := 0
	for _, id := range envconfig.NewRegistry().IDs() {
		if !strings.Contains(id, flagListFilter) {
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		count++
	}

	if count == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No environments match.")
	}
}

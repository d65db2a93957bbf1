package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samuelfneumann/gomario/experiment/store"
)

var (
	flagLimit     int
	flagDeleteRun string
)

var resultsCmd = &cobra.Command{
	Use:   "results [id]",
	Short: "Show recorded episode results",
	Long: `Without an ID, shows a summary of the recorded episodes of every
environment. With an ID, shows the most recent episodes of that
environment.

Examples:
  gomario results
  gomario results SuperMarioBros-1-1-Vanilla --limit 20
  gomario results --delete-run 2026-01-02T15:04:05`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().IntVar(&flagLimit, "limit", 10,
		"Number of episodes to show")
	resultsCmd.Flags().StringVar(&flagDeleteRun, "delete-run", "",
		"Delete every episode of a run")
}

func runResults(cmd *cobra.Command, args []string) error {
	s, err := store.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()

	if flagDeleteRun != "" {
		n, err := s.DeleteRun(flagDeleteRun)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %d episodes of run %q\n", n, flagDeleteRun)
		return nil
	}

	if len(args) == 0 {
		summaries, err := s.Summaries()
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Fprintln(out, "No episodes recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "  %-50s  %8s  %10s  %10s  %9s  %5s\n", "ID",
			"Episodes", "Mean", "Best", "Steps", "Flags")
		for _, sum := range summaries {
			fmt.Fprintf(out, "  %-50s  %8d  %10.2f  %10.2f  %9.1f  %5d\n",
				sum.EnvID, sum.Episodes, sum.MeanReturn, sum.BestReturn,
				sum.MeanSteps, sum.Flags)
		}
		return nil
	}

	episodes, err := s.Episodes(args[0], flagLimit)
	if err != nil {
		return err
	}
	if len(episodes) == 0 {
		fmt.Fprintf(out, "No episodes recorded for %v.\n", args[0])
		return nil
	}

	fmt.Fprintf(out, "  %-19s  %-7s  %6s  %10s  %-10s  %5s  %6s  %4s\n",
		"Run", "Episode", "Steps", "Return", "End", "Stage", "X", "Flag")
	for _, e := range episodes {
		flag := ""
		if e.FlagGet {
			flag = "yes"
		}
		fmt.Fprintf(out, "  %-19s  %-7d  %6d  %10.2f  %-10s  %2d-%-2d  %6d  %4s\n",
			e.Run, e.Episode, e.Steps, e.Return, e.End, e.World, e.Stage,
			e.XPos, flag)
	}
	return nil
}

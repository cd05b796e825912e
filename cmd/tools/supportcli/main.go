// Command supportcli exercises the reply selector and severity bands from a shell.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindcare/backend/internal/analysis/metrics"
	analysis "github.com/mindcare/backend/internal/analysis/support"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "supportcli",
		Short:        "Inspect MindCare support replies and severity bands",
		SilenceUsage: true,
	}
	root.AddCommand(newReplyCmd(), newBandCmd())
	return root
}

func newReplyCmd() *cobra.Command {
	var (
		strategy string
		turn     int
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "reply <message>",
		Short: "Print the reply the selector picks for a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := analysis.ParseFallbackStrategy(strategy)
			if err != nil {
				return err
			}
			reply := analysis.NewSelector(parsed).Select(strings.Join(args, " "), turn)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(reply)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", reply.Category, reply.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&strategy, "fallback", string(analysis.RoundRobin), "fallback strategy: round-robin or length")
	cmd.Flags().IntVar(&turn, "turn", 0, "fallback replies already sent in the session")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full reply as JSON")
	return cmd
}

func newBandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "band <score>",
		Short: "Print the severity band for a 1-10 score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("score must be an integer: %w", err)
			}
			band, err := metrics.SeverityBand(score)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), band)
			return nil
		},
	}
}

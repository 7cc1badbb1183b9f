package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/nickrallison/obsidian-linker-new/pkg/engine"
)

var (
	scanJSON  bool
	scanWatch bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List link candidates without changing anything",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		eng, _, err := openEngine(cmd)
		if err != nil {
			fatal("Error initializing linker", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if !scanWatch {
			plan, err := eng.Plan(ctx)
			if err != nil {
				fatal("Error scanning vault", err)
			}
			if err := printPlan(os.Stdout, plan, scanJSON); err != nil {
				fatal("Error writing output", err)
			}
			return
		}

		err = eng.Watch(ctx, func(plan *engine.Plan, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
				return
			}
			if err := printPlan(os.Stdout, plan, scanJSON); err != nil {
				fmt.Fprintf(os.Stderr, "output failed: %v\n", err)
			}
		})
		if err != nil {
			fatal("Error watching vault", err)
		}
	},
}

func printPlan(w io.Writer, plan *engine.Plan, asJSON bool) error {
	if asJSON {
		out := struct {
			RunID      string `json:"run_id"`
			Candidates any    `json:"candidates"`
			Discarded  int    `json:"discarded"`
		}{plan.RunID, plan.Candidates, plan.Discarded}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	for _, c := range plan.Candidates {
		if _, err := fmt.Fprintf(w, "%s:%d-%d %q -> %s\n", c.SourceID, c.Start, c.End, c.MatchedText, c.TargetID); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d candidates in %d documents\n", len(plan.Candidates), len(plan.Documents))
	return err
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Output in JSON format")
	scanCmd.Flags().BoolVar(&scanWatch, "watch", false, "Rescan whenever the vault changes")
}

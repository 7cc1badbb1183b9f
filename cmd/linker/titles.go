package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nickrallison/obsidian-linker-new/pkg/core"
)

var (
	titlesJSON bool
)

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "List the title index of the vault",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		eng, _, err := openEngine(cmd)
		if err != nil {
			fatal("Error initializing linker", err)
		}

		plan, err := eng.Plan(context.Background())
		if err != nil {
			fatal("Error building title index", err)
		}

		if titlesJSON {
			out := struct {
				Titles     []core.TitleEntry `json:"titles"`
				BadParse   []string          `json:"bad_parse"`
				Collisions []core.Collision  `json:"collisions"`
			}{plan.Titles, plan.BadParse, plan.Collisions}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(out); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, t := range plan.Titles {
			kind := ""
			if t.Alias {
				kind = " (alias)"
			}
			fmt.Printf("%s -> %s%s\n", t.Title, t.TargetID, kind)
		}
		for _, id := range plan.BadParse {
			fmt.Fprintf(os.Stderr, "skipped %s: not valid text\n", id)
		}
		for _, c := range plan.Collisions {
			fmt.Fprintf(os.Stderr, "collision: %s\n", c)
		}
	},
}

func init() {
	rootCmd.AddCommand(titlesCmd)
	titlesCmd.Flags().BoolVar(&titlesJSON, "json", false, "Output in JSON format")
}

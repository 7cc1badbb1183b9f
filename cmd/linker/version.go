package main

import (
	"fmt"
	"strings"

	linker "github.com/nickrallison/obsidian-linker-new"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of linker",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("linker version %s\n", strings.TrimSpace(linker.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/questboard"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of questboard",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("questboard version %s\n", strings.TrimSpace(questboard.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "questboard",
	Short: "Questboard is a role-based task board chat workflow",
	Long: `Questboard runs a chat bot workflow where a master identity creates
groups and tasks, and players join groups via invite links to claim and
complete the tasks.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("env-file", "", "Optional .env file to load before reading the environment")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "enkat",
	Short: "Enkat is a conversational survey engine",
	Long:  `Enkat runs surveys as chat conversations: a survey document describes a graph of questions and the engine walks respondents through it one answer at a time.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("file", "f", "survey.yaml", "Path to the survey document (YAML or JSON)")
}

package main

import (
	"fmt"
	"strings"

	"enkat"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of enkat",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("enkat version %s\n", strings.TrimSpace(enkat.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

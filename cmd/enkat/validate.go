package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"enkat"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the survey document for consistency",
	Long:  `Parses the survey document and reports transitions or skip rules pointing at questions that do not exist.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		if !cmd.Flags().Changed("file") && len(args) > 0 {
			file = args[0]
		}

		if err := runValidate(file); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Survey is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(file string) error {
	eng, err := enkat.New(file)
	if err != nil {
		return err
	}

	dangling, err := eng.Validate(context.Background())
	if err != nil {
		return err
	}
	if len(dangling) == 0 {
		return nil
	}

	survey, err := eng.Survey(context.Background())
	if err != nil {
		return err
	}
	var lines []string
	for _, id := range survey.IDs() {
		if targets, ok := dangling[id]; ok {
			lines = append(lines, fmt.Sprintf("%s -> %s", id, strings.Join(targets, ", ")))
		}
	}
	return fmt.Errorf("dangling references:\n  %s", strings.Join(lines, "\n  "))
}

package main

import (
	"fmt"
	"os"

	"enkat/internal/cli"
	"enkat/internal/presentation/tui"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the survey as an interactive terminal conversation",
	Long:  `Starts the survey from its document and walks through it question by question on the terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		if !cmd.Flags().Changed("file") && len(args) > 0 {
			file = args[0]
		}

		opts := cli.RunOptions{File: file}
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.Plain, _ = cmd.Flags().GetBool("plain")
		opts.Pacing, _ = cmd.Flags().GetDuration("pacing")

		if err := cli.Execute(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("session", "s", "", "Session id to persist and resume the conversation")
	runCmd.Flags().Bool("fresh", false, "Discard any stored state for the session before starting")
	runCmd.Flags().Bool("debug", false, "Enable debug logging to stderr")
	runCmd.Flags().Bool("plain", false, "Disable markdown styling and the banner")
	runCmd.Flags().Duration("pacing", tui.DefaultPacing, "Pause before each bot message (0 to disable)")

	// Make 'run' the default command.
	rootCmd.Run = runCmd.Run
}

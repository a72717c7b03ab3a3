package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	timeutils "github.com/imishinist/hparams-inspector/internal/time"
)

var runInfoCmd = &cobra.Command{
	Use:   "run-info",
	Short: "Show which host last wrote a session group's events",
	Long:  "Find the newest event file of a session group and report its host and age",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(runInfoCmd)

	runInfoCmd.Flags().String("group", "", "Session group name (required)")
	runInfoCmd.MarkFlagRequired("group")
}

func runInfo(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	group, _ := cmd.Flags().GetString("group")

	info, err := a.freshness.Resolve(cmd.Context(), group)
	if err != nil {
		return fmt.Errorf("failed to resolve run info: %w", err)
	}

	fmt.Printf("Host: %s\n", info.DisplayHost())
	if info.Alias != "" {
		fmt.Printf("  Hostname: %s\n", info.Hostname)
	}
	fmt.Printf("Event file: %s\n", info.EventFile)
	fmt.Printf("Last write: %s (%v hours ago)\n", info.ModTime.Format("2006-01-02 15:04:05"), timeutils.RoundTo(info.ElapsedHours, 1))
	return nil
}

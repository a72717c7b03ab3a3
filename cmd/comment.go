package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imishinist/hparams-inspector/internal/models"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Read and write session group comments",
	Long:  "Read and write the comment and done flag of a session group",
}

var commentGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print a session group's comment",
	RunE:  commentGet,
}

var commentSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace a session group's comment",
	Example: `  # Mark a group as reviewed
  hparams-inspector comment set --group sweep/run-3 --value "diverged after lr warmup" --done`,
	RunE: commentSet,
}

func init() {
	rootCmd.AddCommand(commentCmd)
	commentCmd.AddCommand(commentGetCmd)
	commentCmd.AddCommand(commentSetCmd)

	commentGetCmd.Flags().String("group", "", "Session group name (required)")
	commentGetCmd.MarkFlagRequired("group")

	commentSetCmd.Flags().String("group", "", "Session group name (required)")
	commentSetCmd.Flags().String("value", "", "Comment text; replaces any existing comment")
	commentSetCmd.Flags().Bool("done", false, "Mark the group as done")
	commentSetCmd.MarkFlagRequired("group")
}

func commentGet(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	group, _ := cmd.Flags().GetString("group")

	comment, err := a.annotations.Get(cmd.Context(), group)
	if err != nil {
		return fmt.Errorf("failed to read comment: %w", err)
	}

	fmt.Printf("Group: %s\n", group)
	fmt.Printf("Done: %t\n", comment.Done)
	fmt.Printf("Comment: %s\n", comment.Value)
	return nil
}

func commentSet(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	group, _ := cmd.Flags().GetString("group")
	value, _ := cmd.Flags().GetString("value")
	done, _ := cmd.Flags().GetBool("done")

	comment := models.Comment{Value: processEscapeSequences(value), Done: done}
	if err := a.annotations.Set(cmd.Context(), group, comment); err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	fmt.Printf("Comment updated for %s (done: %t)\n", group, done)
	return nil
}

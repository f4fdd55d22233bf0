package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage conversation sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the known session IDs",
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a session's conversation history",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear [id]",
	Short: "Delete a session's history",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsClear,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	ids, err := sessionService.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	if len(ids) == 0 {
		cmd.Println("No sessions.")
		return nil
	}

	cmd.Println("Sessions:")
	for _, id := range ids {
		cmd.Printf("  %s\n", id)
	}

	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	session, err := sessionService.History(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	if len(session.Turns) == 0 {
		cmd.Printf("Session %s has no history.\n", args[0])
		return nil
	}

	for i := range session.Turns {
		turn := &session.Turns[i]
		label := turn.Role
		if turn.Domain != "" {
			label = fmt.Sprintf("%s (%s)", turn.Role, turn.Domain)
		}
		cmd.Printf("[%s] %s\n", label, turn.Text)
	}

	return nil
}

func runSessionsClear(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	if err := sessionService.Clear(context.Background(), args[0]); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	cmd.Printf("Cleared session %s\n", args[0])
	return nil
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zhubert/parley/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved chats",
	Long: `Lists every chat log in the history directory with its turn count and the
number of records that could not be read.`,
	Args: cobra.NoArgs,
	RunE: runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := session.NewStore(cfg.HistoryDir)
	if err != nil {
		return fmt.Errorf("error opening history: %w", err)
	}
	return listSessions(os.Stdout, store)
}

// listSessions prints one line per chat log in ordinal order.
func listSessions(w io.Writer, store *session.Store) error {
	ids, err := store.List()
	if err != nil {
		return fmt.Errorf("error listing chats: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintf(w, "No chats in %s\n", store.Dir())
		return nil
	}

	fmt.Fprintf(w, "%-12s %6s %10s  %s\n", "CHAT", "TURNS", "MALFORMED", "LAST ACTIVITY")
	for _, id := range ids {
		l, err := store.Load(id)
		if err != nil {
			fmt.Fprintf(w, "%-12s %6s %10s  %v\n", id.String(), "-", "-", err)
			continue
		}
		last := "-"
		if n := len(l.Turns); n > 0 && !l.Turns[n-1].Timestamp.IsZero() {
			last = l.Turns[n-1].Timestamp.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%-12s %6d %10d  %s\n", id.String(), len(l.Turns), len(l.Skipped), last)
	}
	return nil
}

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhubert/parley/internal/config"
	"github.com/zhubert/parley/internal/logger"
	"github.com/zhubert/parley/internal/session"
)

var skipConfirm bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all chat logs and debug logs",
	Long: `Deletes every chat log in the history directory and removes the debug log
files. It will prompt for confirmation before proceeding unless the --yes flag
is used.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return runCleanWithReader(cfg, os.Stdin, os.Stdout)
}

// runCleanWithReader allows injecting a reader for testing
func runCleanWithReader(cfg *config.Config, input io.Reader, out io.Writer) error {
	store, err := session.NewStore(cfg.HistoryDir)
	if err != nil {
		return fmt.Errorf("error opening history: %w", err)
	}
	ids, err := store.List()
	if err != nil {
		return fmt.Errorf("error listing chats: %w", err)
	}

	// Release our own handle before removing log files
	logger.Close()

	fmt.Fprintln(out, "This will clean:")
	if len(ids) > 0 {
		fmt.Fprintf(out, "  - %d chat log(s) in %s\n", len(ids), store.Dir())
	}
	fmt.Fprintln(out, "  - Debug log files")

	// Confirm unless --yes flag is set
	if !skipConfirm {
		if !confirm(input, out, "Continue?") {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	removed := 0
	for _, id := range ids {
		if err := store.Delete(id); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			continue
		}
		removed++
	}

	logsCleared, err := logger.ClearLogs(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error clearing logs: %v\n", err)
	}

	// Print results
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Cleaned:")
	fmt.Fprintf(out, "  - %d chat log(s) removed\n", removed)
	if logsCleared > 0 {
		fmt.Fprintf(out, "  - %d log file(s) removed\n", logsCleared)
	}
	return nil
}

// confirm prompts the user for y/n confirmation
func confirm(input io.Reader, out io.Writer, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

package cmd

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/parley/internal/app"
	"github.com/zhubert/parley/internal/completion"
	"github.com/zhubert/parley/internal/config"
	"github.com/zhubert/parley/internal/logger"
	"github.com/zhubert/parley/internal/session"
)

var (
	configPath            string
	debugMode             bool
	quietMode             bool
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Terminal chat client with multiple concurrent conversations",
	Long: `Parley is a terminal chat client for OpenAI-compatible completion services.
Each conversation lives in its own tab and is saved as a JSON Lines log in the
history directory, so closed chats can be reopened from the chat list.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default ~/.parley/config.json)")
	flags.String("history-dir", "", "Directory holding chat logs")
	flags.String("model", "", "Completion model name")
	flags.String("base-url", "", "Completion service base URL")
	flags.String("log-file", "", "Debug log path (default "+logger.DefaultLogPath+")")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	// Set version dynamically
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("parley %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("parley %s\n", version)
}

// loadConfig reads the config file, environment and flags, and points the
// logger at the configured file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if cfg.LogFile != "" {
		if err := logger.Init(cfg.LogFile); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Ensure logger is closed on exit
	defer logger.Close()

	store, err := session.NewStore(cfg.HistoryDir)
	if err != nil {
		return fmt.Errorf("error opening history: %w", err)
	}
	client := completion.NewOpenAI(completion.Options{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.RequestTimeout,
	})
	logger.WithComponent("cmd").Info("starting",
		"version", version, "historyDir", store.Dir(), "model", cfg.Model, "config", cfg.Path())

	m := app.New(cfg, store, client, version)
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

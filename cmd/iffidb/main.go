// Package main provides the iffiDB CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"iffidb/internal/audit"
	"iffidb/internal/auth"
	"iffidb/internal/command"
	"iffidb/internal/config"
	"iffidb/internal/record"
	"iffidb/internal/store"
)

var (
	// Global flags
	verbose   bool
	workspace string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "iffidb",
	Short: "iffiDB - command-driven record console",
	Long: `iffiDB is a local record management console.

Records, session state, and the activity log live in a SQLite database
under the workspace. The console accepts canonical commands as well as
loose natural phrasing, and can take dictated input from a transcript
feed file.

Run without arguments to start the interactive console.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Use == "iffidb" && cmd.CalledAs() == "iffidb" {
			logger = zap.NewNop()
			return nil
		}

		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch the interactive console
		if logger == nil {
			logger = zap.NewNop()
		}
		return runConsole()
	},
}

// app bundles the wired components behind every command.
type app struct {
	cfg      config.Config
	store    *store.Store
	audit    *audit.Log
	records  *record.Service
	sessions *auth.Sessions
	executor *command.Executor
}

// openApp loads the workspace configuration and wires the component
// graph. The caller owns the returned app and must Close it.
func openApp(logger *zap.Logger) (*app, error) {
	cfg := config.Load(workspace)

	st, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", cfg.DBPath, err)
	}

	log := audit.New(st, cfg.Operator, logger)
	records := record.NewService(st, log, st.Notifier(), logger,
		record.WithDelays(record.Delays{
			Read:   cfg.ReadDelay(),
			Mutate: cfg.MutateDelay(),
		}),
		record.WithSaver(record.DirSaver{Dir: cfg.ExportDir}),
	)
	sessions := auth.NewSessions(st, log, cfg.LoginDelay(), logger)
	executor := command.NewExecutor(records, log, logger)

	return &app{
		cfg:      cfg,
		store:    st,
		audit:    log,
		records:  records,
		sessions: sessions,
		executor: executor,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: $IFFIDB_WORKSPACE or cwd)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

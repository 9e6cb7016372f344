package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"iffidb/internal/audit"
	"iffidb/internal/command"
)

// loginCmd authenticates the operator and persists the session
var loginCmd = &cobra.Command{
	Use:   "login [email] [password]",
	Short: "Authenticate and persist a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(logger)
		if err != nil {
			return err
		}
		defer app.Close()

		user, err := app.sessions.Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		cmd.Printf("Logged in as %s (%s)\n", user.Name, user.Email)
		return nil
	},
}

// logoutCmd clears the persisted session
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(logger)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.sessions.Logout(); err != nil {
			return err
		}
		cmd.Println("Logged out.")
		return nil
	},
}

// statsCmd prints the dashboard summary
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show record statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(logger)
		if err != nil {
			return err
		}
		defer app.Close()

		stats, err := app.records.Stats(cmd.Context())
		if err != nil {
			return err
		}

		cmd.Printf("Total Records: %d\n", stats.TotalRecords)
		cmd.Printf("New Today:     %d\n", stats.NewToday)
		cmd.Printf("Deleted:       %d (simulated)\n", stats.DeletedCount)
		if len(stats.LastAdded) > 0 {
			cmd.Println("Last Added:")
			for _, rec := range stats.LastAdded {
				cmd.Printf("  [%s] %s (%s)\n", rec.ID, rec.Name, rec.Email)
			}
		}
		return nil
	},
}

// seedCmd generates sample records
var seedCmd = &cobra.Command{
	Use:   "seed [count]",
	Short: "Generate sample records",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(logger)
		if err != nil {
			return err
		}
		defer app.Close()

		n := app.cfg.SampleSize
		if len(args) == 1 {
			n, err = strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid count %q", args[0])
			}
		}

		if err := app.records.GenerateSample(cmd.Context(), n); err != nil {
			return err
		}
		cmd.Printf("Generated %d sample records.\n", n)
		return nil
	},
}

// exportCmd writes all records to a CSV file
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all records to CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(logger)
		if err != nil {
			return err
		}
		defer app.Close()

		path, err := app.records.ExportCSV(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Printf("Exported to %s\n", path)
		return nil
	},
}

// logsCmd prints recent activity log entries
var logsCmd = &cobra.Command{
	Use:   "logs [count]",
	Short: "Show recent activity log entries",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(logger)
		if err != nil {
			return err
		}
		defer app.Close()

		limit := 20
		if len(args) == 1 {
			limit, err = strconv.Atoi(args[0])
			if err != nil || limit < 1 {
				return fmt.Errorf("invalid count %q", args[0])
			}
		}

		entries := app.audit.List()
		if len(entries) > limit {
			entries = entries[:limit]
		}
		// Entries are stored newest first; print oldest first.
		for i := len(entries) - 1; i >= 0; i-- {
			printEntry(cmd, entries[i])
		}
		return nil
	},
}

// runCmd executes a single console command non-interactively
var runCmd = &cobra.Command{
	Use:   "run [command]",
	Short: "Execute a single console command",
	Long: `Runs one command through the same pipeline as the interactive
console: loose natural phrasing is first rewritten to a canonical
command, then executed. The resulting log entries are printed.

Example:
  iffidb run 'create -n "John Doe" -e "john@test.com"'
  iffidb run "create record name Jane Smith email jane@test.com"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(logger)
		if err != nil {
			return err
		}
		defer app.Close()

		raw := strings.Join(args, " ")
		before := len(app.audit.List())

		input, translated := command.Interpret(raw)
		if translated {
			app.audit.Append(audit.ActionSystem,
				fmt.Sprintf("🤖 AI Interpreted: \"%s\" -> \"%s\"", raw, input))
		}
		app.executor.Execute(cmd.Context(), input)

		entries := app.audit.List()
		fresh := len(entries) - before
		for i := fresh - 1; i >= 0; i-- {
			printEntry(cmd, entries[i])
		}
		return nil
	},
}

func printEntry(cmd *cobra.Command, e audit.Entry) {
	ts := time.UnixMilli(e.Timestamp).Format("15:04:05")
	cmd.Printf("[%s] %-6s %s\n", ts, e.Action, e.Details)
}

package command

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"iffidb/internal/audit"
	"iffidb/internal/record"
)

// UsageError reports malformed command syntax: a missing id or missing
// required flags.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return e.Usage
}

// UnknownCommandError names an unrecognized verb.
type UnknownCommandError struct {
	Verb string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("Unknown command '%s'. Type 'help' or try voice commands.", e.Verb)
}

var helpLines = []string{
	"Available Commands:",
	"  list : View recent records",
	"  create -n [Name] -e [Email] -p [Phone] : Add record",
	"  update [ID] -n [Name] ... : Update record",
	"  delete [ID] : Delete record",
	"  export : Download CSV",
	"  clear : Clear console view",
	`  Voice AI: Feed a transcript and say "Create record name John email john@test.com"`,
}

// Executor dispatches canonical command lines to the record service. It is
// stateless between invocations; each Execute call is independent.
type Executor struct {
	records *record.Service
	audit   *audit.Log
	logger  *zap.Logger
}

// NewExecutor returns an executor over the given service and audit log.
func NewExecutor(records *record.Service, log *audit.Log, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{records: records, audit: log, logger: logger}
}

// Execute runs one command line. The raw command is echoed as a SYSTEM
// entry before dispatch, and every error is converted into an ERROR entry
// here; nothing propagates past this boundary. The caller only observes
// log-panel output.
func (e *Executor) Execute(ctx context.Context, raw string) {
	cmd := strings.TrimSpace(raw)
	if cmd == "" {
		return
	}

	e.audit.Append(audit.ActionSystem, "> "+cmd)

	if err := e.dispatch(ctx, cmd); err != nil {
		e.logger.Debug("Command failed", zap.String("command", cmd), zap.Error(err))
		e.audit.Append(audit.ActionError, "Command Failed: "+err.Error())
	}
}

func (e *Executor) dispatch(ctx context.Context, input string) error {
	args := Tokenize(input)
	if len(args) == 0 {
		return nil
	}

	verb := strings.ToLower(args[0])
	switch verb {
	case "help":
		for _, line := range helpLines {
			e.audit.Append(audit.ActionSystem, line)
		}
		return nil

	case "clear":
		// View-level clearing is a console concern; the data stays.
		e.audit.Append(audit.ActionSystem, "--- CONSOLE CLEARED ---")
		return nil

	case "list":
		records, err := e.records.List(ctx)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			e.audit.Append(audit.ActionSystem, "Database is empty.")
			return nil
		}
		e.audit.Append(audit.ActionSystem, fmt.Sprintf("Found %d records. Showing last 5:", len(records)))
		shown := records
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, r := range shown {
			e.audit.Append(audit.ActionSystem, fmt.Sprintf("[%s] %s (%s)", r.ID, r.Name, r.Email))
		}
		return nil

	case "export":
		_, err := e.records.ExportCSV(ctx)
		return err

	case "delete":
		if len(args) < 2 {
			return &UsageError{Usage: "Usage: delete [ID]"}
		}
		return e.records.Delete(ctx, args[1])

	case "create":
		f := parseFields(args[1:])
		if f.name == nil || f.email == nil {
			return &UsageError{Usage: "Name (-n) and Email (-e) are required."}
		}
		fields := record.Fields{Name: *f.name, Email: *f.email}
		if f.phone != nil {
			fields.Phone = *f.phone
		}
		if f.address != nil {
			fields.Address = *f.address
		}
		_, err := e.records.Create(ctx, fields)
		return err

	case "update":
		if len(args) < 3 {
			return &UsageError{Usage: "Usage: update [ID] -n [Name] ..."}
		}
		f := parseFields(args[2:])
		if f.empty() {
			return &UsageError{Usage: "No fields to update provided."}
		}
		_, err := e.records.Update(ctx, args[1], record.Partial{
			Name:    f.name,
			Email:   f.email,
			Phone:   f.phone,
			Address: f.address,
		})
		return err

	default:
		return &UnknownCommandError{Verb: verb}
	}
}

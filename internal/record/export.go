package record

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"iffidb/internal/audit"
	"iffidb/internal/store"
)

// csvTimeLayout is the localized creation-time format used in exports.
const csvTimeLayout = "2006-01-02 15:04:05"

// Saver delivers an export artifact to the operator. The default
// implementation writes the file into a local export directory.
type Saver interface {
	Save(name string, data []byte) (path string, err error)
}

// DirSaver writes exports into a directory, creating it as needed.
type DirSaver struct {
	Dir string
}

// Save writes data under the export directory and returns the full path.
func (d DirSaver) Save(name string, data []byte) (string, error) {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(d.Dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// ExportCSV serializes all records as CSV, delivers the file through the
// configured Saver as iffidb_export_<YYYY-MM-DD>.csv, and writes a SYSTEM
// audit entry. It fails with ErrEmptyExport when there are no records.
func (s *Service) ExportCSV(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var records []Record
	if _, err := s.store.Read(store.KeyRecords, &records); err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", ErrEmptyExport
	}

	name := fmt.Sprintf("iffidb_export_%s.csv", s.now().Format("2006-01-02"))
	path, err := s.saver.Save(name, MarshalCSV(records))
	if err != nil {
		return "", fmt.Errorf("failed to deliver export: %w", err)
	}

	s.audit.Append(audit.ActionSystem, "Exported all records to CSV via Command.")
	return path, nil
}

// MarshalCSV serializes records with the fixed header row. Every field is
// wrapped in double quotes with embedded quotes doubled, so values
// containing commas, quotes, or newlines survive a round trip.
func MarshalCSV(records []Record) []byte {
	var b strings.Builder
	b.WriteString("ID,Name,Email,Phone,Address,Created At")

	for _, r := range records {
		created := time.UnixMilli(r.CreatedAt).Local().Format(csvTimeLayout)
		row := []string{
			escapeCSV(r.ID),
			escapeCSV(r.Name),
			escapeCSV(r.Email),
			escapeCSV(r.Phone),
			escapeCSV(r.Address),
			escapeCSV(created),
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(row, ","))
	}
	return []byte(b.String())
}

func escapeCSV(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

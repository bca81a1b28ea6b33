package dataprocessing

import (
	"context"
	"log/slog"
	"path/filepath"

	apperrors "attendancify/internal/errors"
	"attendancify/pkg/contracts/domain"
)

// Accepted roster headers, compared trimmed and lowercased
var (
	IdentifierHeaders = []string{"email", "email_id", "email address"}
	RosterNameHeaders = []string{"participant name", "name"}
)

// LoadRoster reads the roster (master) file. It needs an email-like
// identifier column and a participant name column; other columns are ignored.
func (e *Extractor) LoadRoster(ctx context.Context, path string) ([]domain.RosterEntry, error) {
	t, err := ReadTable(path, false)
	if err != nil {
		return nil, err
	}

	idCol := t.FindColumn(IdentifierHeaders...)
	nameCol := t.FindColumn(RosterNameHeaders...)
	if idCol < 0 || nameCol < 0 {
		return nil, apperrors.NewSchemaError("Master file must have 'Email' and 'Participant Name' columns.").
			WithContext("file", filepath.Base(path))
	}

	entries := make([]domain.RosterEntry, 0, len(t.Rows))
	for _, row := range t.Rows {
		entries = append(entries, domain.RosterEntry{
			Identifier:  row[idCol],
			DisplayName: row[nameCol],
		})
	}

	e.logger.DebugContext(ctx, "Roster loaded",
		slog.String("file", filepath.Base(path)),
		slog.Int("entries", len(entries)))

	return entries, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/platinummonkey/userfed/pkg/authuser"
)

// Path identifies which lookup strategy produced a resolution.
type Path int

const (
	// ResolvedByID means the identifier parsed as a numeric key and matched
	// the id column.
	ResolvedByID Path = iota
	// ResolvedByLegacyID means the identifier matched the 32-character
	// opaque uniqueid column kept from the previous identifier scheme.
	ResolvedByLegacyID
)

// String returns the label used in logs.
func (p Path) String() string {
	switch p {
	case ResolvedByID:
		return "id"
	case ResolvedByLegacyID:
		return "legacy_id"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of resolving an external identifier, tagged
// with the strategy that matched so hosts can migrate legacy references to
// the numeric key.
type Resolution struct {
	Record *authuser.Record
	Path   Path
}

// Resolve finds the user behind an external identifier. Identifiers that
// parse as base-10 integers are tried against the primary key first; on a
// parse failure or a clean not-found, the legacy identifier column is tried
// next. A connectivity failure during the primary lookup propagates
// immediately rather than falling through, so a degraded database never
// misreports a known user as unknown.
func (s *Store) Resolve(ctx context.Context, identifier string) (*Resolution, error) {
	if id, perr := strconv.ParseInt(identifier, 10, 64); perr == nil {
		rec, err := s.FindByID(ctx, id)
		if err == nil {
			return &Resolution{Record: rec, Path: ResolvedByID}, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	rec, err := s.findByLegacyID(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return &Resolution{Record: rec, Path: ResolvedByLegacyID}, nil
}

// findByLegacyID matches the superseded opaque identifier. The uniqueid
// column only exists on the full table, so sources restricted to the lookup
// view report a query failure here rather than a silent miss.
func (s *Store) findByLegacyID(ctx context.Context, identifier string) (rec *authuser.Record, err error) {
	defer s.observe("find_by_legacy_id", time.Now(), &err)

	query := "SELECT * FROM " + s.source + " WHERE uniqueid = $1"
	rec, err = authuser.ScanRecord(s.db.QueryRowxContext(ctx, query, identifier))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by legacy id: %w", err)
	}
	return rec, nil
}

package authuser

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// row is the scan target for directory rows. It carries the superset of all
// known columns as nullable types so that one mapping serves both the full
// authuser table and the column-limited restricted view: columns absent from
// the result set simply leave their field at the zero value, and NULL values
// flatten to the same defaults.
type row struct {
	ID           sql.NullInt64  `db:"id"`
	LegacyID     sql.NullString `db:"uniqueid"`
	Username     sql.NullString `db:"username"`
	FirstName    sql.NullString `db:"firstname"`
	LastName     sql.NullString `db:"lastname"`
	Email        sql.NullString `db:"email"`
	Validated    sql.NullBool   `db:"validated"`
	Provider     sql.NullString `db:"provider"`
	PasswordHash sql.NullString `db:"password_pw"`
	PasswordSalt sql.NullString `db:"password_slt"`
	Locale       sql.NullString `db:"locale"`
	Timezone     sql.NullString `db:"timezone"`
	Superuser    sql.NullBool   `db:"superuser"`
	CreatedAt    sql.NullTime   `db:"createdat"`
	UpdatedAt    sql.NullTime   `db:"updatedat"`
}

// record flattens the nullable scan target into the public Record.
func (r *row) record() *Record {
	rec := &Record{}
	if r.ID.Valid {
		rec.ID = r.ID.Int64
	}
	if r.LegacyID.Valid {
		rec.LegacyID = r.LegacyID.String
	}
	if r.Username.Valid {
		rec.Username = r.Username.String
	}
	if r.FirstName.Valid {
		rec.FirstName = r.FirstName.String
	}
	if r.LastName.Valid {
		rec.LastName = r.LastName.String
	}
	if r.Email.Valid {
		rec.Email = r.Email.String
	}
	if r.Validated.Valid {
		rec.Validated = r.Validated.Bool
	}
	if r.Provider.Valid {
		rec.Provider = r.Provider.String
	}
	if r.PasswordHash.Valid {
		rec.PasswordHash = r.PasswordHash.String
	}
	if r.PasswordSalt.Valid {
		rec.PasswordSalt = r.PasswordSalt.String
	}
	if r.Locale.Valid {
		rec.Locale = r.Locale.String
	}
	if r.Timezone.Valid {
		rec.Timezone = r.Timezone.String
	}
	if r.Superuser.Valid {
		rec.Superuser = r.Superuser.Bool
	}
	if r.CreatedAt.Valid {
		t := r.CreatedAt.Time
		rec.CreatedAt = &t
	}
	if r.UpdatedAt.Valid {
		t := r.UpdatedAt.Time
		rec.UpdatedAt = &t
	}
	return rec
}

// ScanRecord maps a single directory row into a Record. The error is returned
// unwrapped so callers can distinguish sql.ErrNoRows from driver failures.
// The row must come from an Unsafe sqlx handle so that columns unknown to the
// mapping are ignored rather than treated as errors.
func ScanRecord(r *sqlx.Row) (*Record, error) {
	var w row
	if err := r.StructScan(&w); err != nil {
		return nil, err
	}
	return w.record(), nil
}

// ScanRecords maps a result set into Records, preserving row order.
func ScanRecords(rows *sqlx.Rows) ([]*Record, error) {
	var records []*Record
	for rows.Next() {
		var w row
		if err := rows.StructScan(&w); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		records = append(records, w.record())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}
	return records, nil
}

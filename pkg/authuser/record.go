// Package authuser defines the read-only user record exposed to federation
// hosts and the row mapping used by the lookup store. Columns missing from
// a result set map to zero values rather than errors.
package authuser

import (
	"strings"
	"time"
)

// Record is a single user loaded from the directory database. Records are
// constructed fresh on every lookup and never written back.
type Record struct {
	// ID is the stable numeric primary key. Hosts should persist this value
	// as the canonical external identifier.
	ID int64

	// LegacyID is the superseded 32-character opaque identifier. It is only
	// populated when the configured source exposes the uniqueid column.
	LegacyID string

	Username  string
	FirstName string
	LastName  string
	Email     string

	// Validated reports whether the account completed email validation.
	Validated bool

	// Provider tags the authentication source that originally created the
	// account.
	Provider string

	// PasswordHash holds the stored hash material, either a complete bcrypt
	// hash or the composite truncated form produced by the upstream system.
	PasswordHash string

	// PasswordSalt holds the stored salt material used to reconstruct
	// composite hashes.
	PasswordSalt string

	Locale    string
	Timezone  string
	Superuser bool

	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// HasCredentials reports whether the record carries both stored credential
// fields required for password verification.
func (r *Record) HasCredentials() bool {
	return r.PasswordHash != "" && r.PasswordSalt != ""
}

// DisplayName returns the user's full name, falling back to the username when
// no name components are present.
func (r *Record) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
	if name == "" {
		return r.Username
	}
	return name
}

// CredentialHash returns the stored password hash material. A nil record
// reports empty material so verification treats it as malformed.
func (r *Record) CredentialHash() string {
	if r == nil {
		return ""
	}
	return r.PasswordHash
}

// CredentialSalt returns the stored password salt material.
func (r *Record) CredentialSalt() string {
	if r == nil {
		return ""
	}
	return r.PasswordSalt
}

// Package credential implements password verification against stored
// directory credentials.
//
// The upstream system stores bcrypt material in one of two layouts. A
// complete 60-character bcrypt hash sits verbatim in the hash column. The
// composite layout carries a "b;" marker followed by a truncated bcrypt hash
// whose tail lives in the separate salt column; appending the salt column to
// the truncated portion reconstructs the full hash. Verification handles
// both layouts and treats anything that does not reconstruct into a
// canonical bcrypt hash as a failed check rather than an error.
package credential

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CompositePrefix marks stored hash material whose bcrypt tail lives in the
// separate salt column.
const CompositePrefix = "b;"

// bcryptPattern matches a complete bcrypt hash in one of the canonical
// variants (no minor version, 2a, 2b, 2y): a two-digit cost and a
// 53-character salt-plus-digest payload.
var bcryptPattern = regexp.MustCompile(`^\$2[aby]?\$\d{2}\$.{53}$`)

// Result classifies the outcome of a credential check.
type Result int

const (
	// Valid means the candidate password matched the stored credential.
	Valid Result = iota
	// Invalid means the credential material was usable but the candidate did
	// not match.
	Invalid
	// Malformed means the stored material was missing or did not reconstruct
	// into a canonical bcrypt hash.
	Malformed
)

// String returns the label used for logging and metrics.
func (r Result) String() string {
	switch r {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Verify reports whether the candidate password matches the credential
// material supplied by src. It never panics and never returns an error; any
// malformed input simply fails the check.
func Verify(src Source, candidate string) bool {
	return Check(src, candidate) == Valid
}

// Check performs the same verification as Verify but reports why it failed,
// which the federation layer uses for metrics and logging. The outcome is
// deterministic for a given source and candidate.
func Check(src Source, candidate string) Result {
	if src == nil {
		return Malformed
	}
	hash := src.CredentialHash()
	salt := src.CredentialSalt()
	if hash == "" || salt == "" {
		return Malformed
	}
	if strings.TrimSpace(candidate) == "" {
		return Invalid
	}

	full := reconstruct(hash, salt)
	if !bcryptPattern.MatchString(full) {
		return Malformed
	}

	err := bcrypt.CompareHashAndPassword([]byte(full), []byte(candidate))
	switch {
	case err == nil:
		return Valid
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return Invalid
	default:
		return Malformed
	}
}

// reconstruct rebuilds the complete bcrypt hash from the stored columns.
// Composite material has the salt column appended to the truncated hash;
// anything else is already complete and the salt column is ignored.
func reconstruct(hash, salt string) string {
	if strings.HasPrefix(hash, CompositePrefix) {
		return hash[len(CompositePrefix):] + salt
	}
	return hash
}

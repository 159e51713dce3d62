package credential

// Source supplies stored credential material for verification. It is
// satisfied by authuser.Record, and by Cached for hosts that keep credential
// material in their own cache layer instead of re-reading the directory row.
type Source interface {
	CredentialHash() string
	CredentialSalt() string
}

// Cached is a Source backed by plain values. Hosts resolve their cache
// representation into one of these at the boundary so verification has a
// single entry point.
type Cached struct {
	Hash string
	Salt string
}

// CredentialHash returns the cached hash material.
func (c Cached) CredentialHash() string { return c.Hash }

// CredentialSalt returns the cached salt material.
func (c Cached) CredentialSalt() string { return c.Salt }

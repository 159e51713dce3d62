package federation

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/userfed/pkg/authuser"
	"github.com/platinummonkey/userfed/pkg/credential"
	"github.com/platinummonkey/userfed/pkg/store"
)

// Records double as credential sources so hosts can verify passwords
// directly against lookup results.
var _ credential.Source = (*authuser.Record)(nil)

// Provider is the single object a federation host wires up. It bundles the
// lookup store with password verification, logging and metrics, and exposes
// only read operations.
type Provider struct {
	store   *store.Store
	log     logrus.FieldLogger
	metrics *store.Metrics
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for resolution and credential diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Provider) {
		if log != nil {
			p.log = log
		}
	}
}

// WithMetrics attaches metrics for credential check outcomes. Store-level
// lookup metrics are configured on the store itself.
func WithMetrics(m *store.Metrics) Option {
	return func(p *Provider) {
		p.metrics = m
	}
}

// New wraps an already-connected store.
func New(st *store.Store, opts ...Option) *Provider {
	p := &Provider{
		store: st,
		log:   logrus.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ResolveByID finds a user by the identifier a host session carries. Numeric
// identifiers are matched against the primary key first; anything else, and
// numeric misses, fall back to the legacy uniqueid column. After a legacy
// hit, hosts should persist Record.ID so subsequent sessions resolve through
// the primary key directly.
func (p *Provider) ResolveByID(ctx context.Context, identifier string) (*authuser.Record, error) {
	res, err := p.store.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}
	p.log.WithFields(logrus.Fields{
		"user_id": res.Record.ID,
		"path":    res.Path.String(),
	}).Debug("resolved user identifier")
	return res.Record, nil
}

// ResolveByUsername finds a user by exact username.
func (p *Provider) ResolveByUsername(ctx context.Context, username string) (*authuser.Record, error) {
	return p.store.FindByUsername(ctx, username)
}

// ResolveByEmail finds a user by exact email address.
func (p *Provider) ResolveByEmail(ctx context.Context, email string) (*authuser.Record, error) {
	return p.store.FindByEmail(ctx, email)
}

// Search returns users whose username, email or name contains term.
func (p *Provider) Search(ctx context.Context, term string, page store.Page) ([]*authuser.Record, error) {
	return p.store.Search(ctx, term, page)
}

// List returns users ordered by username.
func (p *Provider) List(ctx context.Context, page store.Page) ([]*authuser.Record, error) {
	return p.store.List(ctx, page)
}

// Count returns the total number of users visible through the configured
// source.
func (p *Provider) Count(ctx context.Context) (int64, error) {
	return p.store.Count(ctx)
}

// VerifyPassword reports whether candidate matches the stored credential
// material. It never returns an error; malformed stored material fails the
// check and is logged without exposing any hash content.
func (p *Provider) VerifyPassword(src credential.Source, candidate string) bool {
	result := credential.Check(src, candidate)
	if p.metrics != nil {
		p.metrics.CredentialChecksTotal.WithLabelValues(result.String()).Inc()
	}
	if result == credential.Malformed {
		p.logMalformed(src)
	}
	return result == credential.Valid
}

// logMalformed records shape information about unusable credential material.
// Only lengths and the marker prefix are logged, never the material itself.
func (p *Provider) logMalformed(src credential.Source) {
	fields := logrus.Fields{
		"hash_length": 0,
		"salt_length": 0,
		"composite":   false,
	}
	if src != nil {
		hash := src.CredentialHash()
		fields["hash_length"] = len(hash)
		fields["salt_length"] = len(src.CredentialSalt())
		fields["composite"] = strings.HasPrefix(hash, credential.CompositePrefix)
	}
	p.log.WithFields(fields).Warn("stored credential material is not a usable bcrypt hash")
}

// HealthCheck verifies database connectivity.
func (p *Provider) HealthCheck(ctx context.Context) error {
	return p.store.HealthCheck(ctx)
}

// Close releases the underlying connection pool.
func (p *Provider) Close() error {
	return p.store.Close()
}

// Package federation exposes the read-only user directory to an external
// authentication host.
//
// # Overview
//
// A host wires exactly one Provider. The Provider resolves identifiers,
// looks up users by username or email, lists and searches the directory,
// and verifies passwords against stored credential material. It never
// writes to the directory database.
//
// # Wiring
//
// Construct the store from configuration, then wrap it:
//
//	cfg, err := config.FromEnv()
//	if err != nil {
//		log.Fatal(err)
//	}
//	st, err := store.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	provider := federation.New(st, federation.WithLogger(logger))
//	defer provider.Close()
//
// # Identifier resolution
//
// Hosts carry either the current numeric primary key or a 32-character
// identifier from the previous identity scheme. ResolveByID accepts both:
//
//	rec, err := provider.ResolveByID(ctx, "184467")
//	rec, err := provider.ResolveByID(ctx, "0a46c1767d3f8a23b2cf60f0c21f1b8e")
//
// After a legacy hit the host should persist rec.ID and use it from then on.
//
// # Password verification
//
//	rec, err := provider.ResolveByUsername(ctx, "mventnor")
//	if err != nil {
//		return err
//	}
//	ok := provider.VerifyPassword(rec, enteredPassword)
//
// VerifyPassword never returns an error. Stored material that does not
// reconstruct into a canonical bcrypt hash fails the check and is reported
// through logs and metrics without exposing the material itself.
package federation

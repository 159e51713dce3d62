// Command userfed-check connects to the user directory with the current
// configuration and reports what a federation host would see. It is a
// one-shot diagnostic: health check, user count, and optionally a single
// identifier resolution. It never prints stored credential material.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/userfed/pkg/config"
	"github.com/platinummonkey/userfed/pkg/federation"
	"github.com/platinummonkey/userfed/pkg/store"
)

func main() {
	// Parse command line flags
	source := flag.String("source", "", "Override the configured table or view name")
	resolve := flag.String("resolve", "", "Identifier to resolve, numeric or legacy")
	timeout := flag.Duration("timeout", 10*time.Second, "Overall deadline for the checks")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	// Local development convenience; deployments set the environment directly.
	_ = godotenv.Load()

	log := logrus.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *source != "" {
		if !config.ValidSourceName(*source) {
			log.Fatalf("Invalid source name: %q", *source)
		}
		cfg.Source = *source
	}

	log.SetLevel(cfg.LogrusLevel())
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	st, err := store.New(cfg, store.WithLogger(log))
	if err != nil {
		log.Fatalf("Failed to connect to the directory database: %v", err)
	}
	provider := federation.New(st, federation.WithLogger(log))
	defer provider.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := provider.HealthCheck(ctx); err != nil {
		log.Fatalf("Health check failed: %v", err)
	}
	log.Infof("Database reachable, reading from %q", cfg.Source)

	count, err := provider.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count users: %v", err)
	}
	log.Infof("Directory exposes %d users", count)

	if *resolve != "" {
		rec, err := provider.ResolveByID(ctx, *resolve)
		if err != nil {
			log.Fatalf("Failed to resolve %q: %v", *resolve, err)
		}
		log.WithFields(logrus.Fields{
			"id":              rec.ID,
			"username":        rec.Username,
			"email":           rec.Email,
			"validated":       rec.Validated,
			"provider":        rec.Provider,
			"has_credentials": rec.HasCredentials(),
		}).Info("Resolved user")
	}
}

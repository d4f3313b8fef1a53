// Command vaultbridged serves the secrets-access gateway.
//
// Configuration comes from the environment (optionally seeded from a .env
// file) or from a YAML file given with -config. See the vaultbridge package
// documentation for the variable names.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/khalilou88/vaultbridge"
	"github.com/khalilou88/vaultbridge/internal/gateway"
	"github.com/khalilou88/vaultbridge/internal/logging"
	"github.com/khalilou88/vaultbridge/providers/awssm"
	"github.com/khalilou88/vaultbridge/providers/vault"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (default: environment)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(vaultbridge.VersionInfo())
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// Local development convenience; absent .env is fine.
	_ = godotenv.Load()

	var cfg vaultbridge.Config
	var err error
	if configPath != "" {
		cfg, err = vaultbridge.LoadConfigFromFile(configPath)
	} else {
		cfg, err = vaultbridge.LoadConfigFromEnvironment()
	}
	if err != nil {
		return err
	}

	logger := logging.New(cfg)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := gateway.New(store, cfg, logger)
	logger.Info().
		Str("driver", cfg.StoreDriver).
		Str("mount", cfg.Mount).
		Msg("vaultbridge starting")

	if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info().Msg("vaultbridge stopped")
	return nil
}

func newStore(ctx context.Context, cfg vaultbridge.Config, logger zerolog.Logger) (vaultbridge.SecretStore, error) {
	switch cfg.StoreDriver {
	case vaultbridge.StoreDriverVault:
		store, err := vault.New(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		store.Start(ctx)
		return store, nil
	case vaultbridge.StoreDriverAWSSM:
		return awssm.New(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", vaultbridge.ErrInvalidConfiguration, cfg.StoreDriver)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/ballotbinder/internal/adapters/nostr"
	"github.com/vncsmyrnk/ballotbinder/internal/app"
	"github.com/vncsmyrnk/ballotbinder/internal/config"
	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
	"github.com/vncsmyrnk/ballotbinder/internal/logger"
)

var privateKey string

var rootCmd = &cobra.Command{
	Use:           "binderctl",
	Short:         "Inspect and manage locally recorded ballots",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&privateKey, "key", os.Getenv("BINDER_KEY"), "nsec or hex private key (defaults to $BINDER_KEY)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func identity() (domain.KeyPair, error) {
	if strings.TrimSpace(privateKey) == "" {
		return domain.KeyPair{}, fmt.Errorf("%w: pass --key or set BINDER_KEY", domain.ErrIdentityMissing)
	}
	return nostr.NewKeyResolver().Resolve(privateKey)
}

// readIdentity resolves the identity for read-only commands, which accept a
// public key in place of the private one.
func readIdentity(npub string) (domain.Identity, error) {
	if npub = strings.TrimSpace(npub); npub != "" {
		return nostr.DecodePublicKey(npub)
	}
	pair, err := identity()
	if err != nil {
		return "", err
	}
	return pair.Identity, nil
}

func loadApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, logger.New(cfg.Env), cfg)
}

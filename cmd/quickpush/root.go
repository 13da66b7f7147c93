package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/betomoedano/quick-push/internal/config"
	"github.com/betomoedano/quick-push/internal/store"
	"github.com/betomoedano/quick-push/pkg/push"
)

// app carries the pieces every subcommand needs, constructed once in the
// root PersistentPreRunE so commands stay declarative.
type app struct {
	logger *slog.Logger
	cfg    *config.Config
	tokens *store.TokenStore
}

func newRootCommand(logger *slog.Logger) *cobra.Command {
	a := &app{logger: logger}
	var configPath string

	root := &cobra.Command{
		Use:           "quickpush",
		Short:         "Compose and send push notifications through Expo, APNs, and FCM",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("cannot resolve home directory: %w", err)
				}
				configPath = filepath.Join(home, ".quickpush", "config.yaml")
			}
			cfg, err := config.Load(configPath, logger)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.tokens = store.NewTokenStore(cfg.TokensPath)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.quickpush/config.yaml)")

	root.AddCommand(
		newExpoCommand(a),
		newAPNsCommand(a),
		newLiveActivityCommand(a),
		newFCMCommand(a),
		newTokensCommand(a),
	)
	return root
}

// recipients resolves the send targets: explicit args win, otherwise the
// enabled saved tokens for the namespace.
func (a *app) recipients(args []string, namespace string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	saved, err := a.tokens.Enabled(namespace)
	if err != nil {
		return nil, err
	}
	if len(saved) == 0 {
		return nil, fmt.Errorf("no recipient tokens: pass them as arguments or save some with 'quickpush tokens add'")
	}
	return saved, nil
}

// printAggregate reports the outcome of a send and returns the headline
// error so the process exit code reflects failure.
func printAggregate(agg *push.AggregateResult) error {
	fmt.Println(agg.Summary())
	for _, resp := range agg.Successes {
		fmt.Printf("\n--- %s ok ---\n%s\n", truncate(resp.Recipient), resp.DiagnosticDetails())
	}
	for _, failure := range agg.Failures {
		fmt.Printf("\n--- failed: %s ---\n", failure.Error())
		if failure.Hint != "" {
			fmt.Printf("hint: %s\n", failure.Hint)
		}
		if failure.Response != nil {
			fmt.Println(failure.Response.DiagnosticDetails())
		}
	}
	return agg.AsError()
}

func truncate(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "…"
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"nanobanana/internal/history"
	"nanobanana/internal/infra"
)

type globalOptions struct {
	verbose bool
}

// session bundles what every subcommand needs.
type session struct {
	cfg    *infra.Config
	logger infra.Logger
	store  history.Store
	close  func() error
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "nanobanana",
		Short:         "AI photo editing, banana-style",
		Long:          "Edit a photo with a text prompt and a style preset, and manage the local generation history.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every attempt and store operation")

	root.AddCommand(newGenerateCmd(opts), newHistoryCmd(opts))
	return root
}

func openSession(ctx context.Context, opts *globalOptions) (*session, error) {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := infra.NewCLILogger(cfg.AppEnv, opts.verbose)
	store, closeStore, err := history.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open history (%s): %w", cfg.HistoryBackend, err)
	}
	return &session{cfg: cfg, logger: logger, store: store, close: closeStore}, nil
}

func (s *session) Close() {
	if err := s.close(); err != nil {
		s.logger.Error().Err(err).Msg("failed to close history store")
	}
}

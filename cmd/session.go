package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Lumos-Labs-HQ/flashseed/internal/config"
	"github.com/Lumos-Labs-HQ/flashseed/internal/console"
	"github.com/Lumos-Labs-HQ/flashseed/internal/database"
	"github.com/Lumos-Labs-HQ/flashseed/internal/seeder"
	"github.com/spf13/cobra"
)

// session is everything a command needs to talk to the target schema.
type session struct {
	cfg     *config.Config
	gen     config.GenerationConfig
	adapter database.Adapter
	seeder  *seeder.Seeder
	log     *console.Sink
}

func (s *session) Close() {
	s.adapter.Close()
}

func loadSettings() (*config.Config, config.GenerationConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.GenerationConfig{}, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, config.GenerationConfig{}, fmt.Errorf("invalid config: %w", err)
	}

	gen, err := config.LoadGeneration(cfg.GenerationConfig)
	if err != nil {
		return nil, config.GenerationConfig{}, err
	}
	return cfg, gen, nil
}

// openSession loads both config layers, connects and builds a seeder.
// customize may adjust the generation config before the seeder sees it.
func openSession(ctx context.Context, cmd *cobra.Command, customize func(config.GenerationConfig) config.GenerationConfig) (*session, error) {
	cfg, gen, err := loadSettings()
	if err != nil {
		return nil, err
	}
	if customize != nil {
		gen = customize(gen)
		if err := gen.Validate(); err != nil {
			return nil, err
		}
	}

	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, err
	}

	adapter, err := database.NewAdapter(cfg.Database.Provider)
	if err != nil {
		return nil, err
	}
	if err := adapter.Connect(ctx, dbURL); err != nil {
		return nil, fmt.Errorf("%w: %w", seeder.ErrConnection, err)
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	log := console.New(os.Stdout, quiet)

	return &session{
		cfg:     cfg,
		gen:     gen,
		adapter: adapter,
		seeder:  seeder.NewSeeder(adapter, cfg.Database.Schema, gen, log),
		log:     log,
	}, nil
}

// signalContext is cancelled on SIGINT or SIGTERM so an interrupted run
// stops after the statement in flight.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

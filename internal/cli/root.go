// Package cli implements the metro command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/metro"
	"github.com/pdrpinto/metro/internal/config"
	"github.com/pdrpinto/metro/internal/loader"
	"github.com/pdrpinto/metro/network"
)

var (
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "metro",
	Short: "Minimum-time routes across a metro network",
	Long: `metro finds the fastest route between two (station, line) states of a
multi-line metro network using A* search. Riding between adjacent stations
costs travel time and every line change adds a transfer penalty.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default $METRO_CONFIG or ./metro.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads configuration and builds the logger before any subcommand.
func setup(cmd *cobra.Command, args []string) error {
	var (
		loaded *config.Config
		path   string
		err    error
	)
	if configPath != "" {
		loaded, path, err = config.LoadFromPath(configPath)
	} else {
		loaded, path, err = config.Load()
	}
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
	}

	cfg = loaded
	logger, err = newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}
	if path != "" {
		logger.Debug("config loaded", "path", path)
	}
	return nil
}

func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// loadNetwork reads the three tables named in the config.
func loadNetwork() (*network.Model, error) {
	model, err := loader.Load(loader.Files{
		Lines:          cfg.Data.Lines,
		RealDistance:   cfg.Data.RealDistance,
		DirectDistance: cfg.Data.DirectDistance,
	}, network.WithVelocity(cfg.Velocity))
	if err != nil {
		return nil, err
	}
	logger.Debug("network loaded",
		"stations", len(model.Stations()), "lines", len(model.Lines()), "velocity", model.Velocity())
	return model, nil
}

// searchOptions translates the config into engine options.
func searchOptions() ([]metro.Option, error) {
	dedup, err := metro.ParseDedup(cfg.Dedup)
	if err != nil {
		return nil, err
	}
	return []metro.Option{
		metro.WithTransferPenalty(cfg.Penalty()),
		metro.WithDedup(dedup),
		metro.WithMaxIterations(cfg.MaxIterations),
		metro.WithLogger(logger),
	}, nil
}

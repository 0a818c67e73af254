package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iburimskiy/nightsky/internal/audio"
	"github.com/iburimskiy/nightsky/internal/config"
	"github.com/iburimskiy/nightsky/internal/game"
	"github.com/iburimskiy/nightsky/internal/sky"
)

var (
	configPath string
	verbose    bool
	offline    bool
	fullscreen bool

	appConfig config.Config
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nightsky",
	Short: "A few words, then the night sky as it looked on that day",
	Long: `nightsky shows a short click-through message sequence and ends on a
full-window star field fetched from a star catalog (or generated when the
catalog cannot be reached).

On the sky: drag to pan, scroll to zoom, R resets the view, S saves a PNG,
M picks a music track, Space pauses it, Esc or Q quits.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err = newLogger(cfg.Level(), verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		appConfig = cfg
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging, overrides log_level")
	rootCmd.Flags().BoolVar(&offline, "offline", false, "skip the star catalog and generate stars")
	rootCmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "start in fullscreen")
}

// newLogger builds the production logger at level; verbose forces debug.
func newLogger(level zapcore.Level, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

// loadConfig merges the config file, environment and command-line flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("offline") {
		cfg.Offline = offline
	}
	if cmd.Flags().Changed("fullscreen") {
		cfg.Fullscreen = fullscreen
	}
	return cfg, nil
}

func newLoader(cfg config.Config) *sky.Loader {
	catalog := &sky.Catalog{
		Client:          &http.Client{Timeout: cfg.FetchTimeout},
		Endpoint:        cfg.Endpoint,
		Latitude:        cfg.Latitude,
		Longitude:       cfg.Longitude,
		At:              cfg.ObservationTime(),
		Attempts:        cfg.FetchAttempts,
		InitialInterval: 500 * time.Millisecond,
		Logger:          logger.Named("catalog"),
	}
	return &sky.Loader{
		Source:      catalog,
		RandomCount: cfg.RandomStars,
		Offline:     cfg.Offline,
		Timeout:     cfg.FetchTimeout * time.Duration(cfg.FetchAttempts),
		Logger:      logger.Named("loader"),
	}
}

// pickMusic opens the native file dialog. Cancelling yields an empty path.
func pickMusic(ctx context.Context) (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Context(ctx),
		zenity.Title("Choose a song for the night sky"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: audio.Patterns,
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) || errors.Is(err, context.Canceled) {
			return "", nil
		}
		return "", err
	}
	return filename, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	logger.Info("starting",
		zap.Bool("offline", cfg.Offline),
		zap.String("endpoint", cfg.Endpoint),
		zap.String("observed_at", cfg.ObservedAt),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	player := audio.NewPlayer(logger.Named("audio"))
	g, err := game.NewGame(ctx, game.Options{
		Config:   cfg,
		Logger:   logger.Named("game"),
		Loader:   newLoader(cfg),
		Music:    player,
		PickFile: pickMusic,
	})
	if err != nil {
		return err
	}
	defer g.Close()

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Fullscreen)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_ = zenity.Error(err.Error(), zenity.Title("nightsky"), zenity.ErrorIcon)
		os.Exit(1)
	}
}

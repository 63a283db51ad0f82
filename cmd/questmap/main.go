package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"questmap/internal/config"
	"questmap/internal/geodata"
	"questmap/internal/logging"
	"questmap/internal/mapctl"
	"questmap/internal/metrics"
	"questmap/internal/tui"
)

func main() {
	var (
		cfg *config.Config
		err error
	)
	if len(os.Args) > 1 {
		cfg, err = config.LoadFrom(os.Args[1])
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		l := logging.Logger()
		l.Fatal().Err(err).Msg("loading configuration")
	}

	// The UI owns the terminal, so logs go to a file or nowhere.
	logCfg := logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	if cfg.Logging.File != "" {
		f, err := logging.InitFile(logCfg, cfg.Logging.File)
		if err != nil {
			l := logging.Logger()
			l.Fatal().Err(err).Msg("opening log file")
		}
		defer f.Close()
	} else {
		logCfg.Output = io.Discard
		logging.Init(logCfg)
	}
	log := logging.Component("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.Listen != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Listen); err != nil {
				log.Error().Err(err).Str("addr", cfg.Metrics.Listen).Msg("metrics server stopped")
			}
		}()
	}

	backend := newBackend(cfg, m)
	uiLog := logging.Logger()
	model := tui.New(tui.Options{
		Backend: backend,
		Controller: mapctl.Options{
			Metrics:       m,
			FrameInterval: cfg.Map.FrameInterval,
			SettleDelay:   cfg.Map.SettleDelay,
		},
		World:      cfg.Map.World,
		CampaignID: cfg.Campaign.ID,
		Logger:     &uiLog,
	})

	log.Info().Str("source", cfg.Data.Source).Str("world", cfg.Map.World).Msg("starting questmap")
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("ui exited with error")
		os.Exit(1)
	}
}

func newBackend(cfg *config.Config, m *metrics.Metrics) tui.Backend {
	if cfg.Data.Source == "file" {
		return geodata.NewFileSource(geodata.FileSourceConfig{
			Dir:          cfg.Data.Dir,
			CellsMaxArea: cfg.Map.CellsMaxArea,
			TileSets:     cfg.TileSets,
			RegionsFile:  cfg.Campaign.RegionsFile,
		})
	}
	return geodata.NewClient(geodata.ClientConfig{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         cfg.API.Timeout,
		RatePerSecond:   cfg.API.RatePerSecond,
		Burst:           cfg.API.Burst,
		BreakerFailures: cfg.API.BreakerFailures,
		CellsMaxArea:    cfg.Map.CellsMaxArea,
		TileSetTTL:      cfg.API.TileSetTTL,
		Metrics:         m,
	})
}

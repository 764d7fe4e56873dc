// Package main is the entry point for the parkwalk portfolio park.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/folio3d/parkwalk/internal/config"
	"github.com/folio3d/parkwalk/internal/debugserver"
	"github.com/folio3d/parkwalk/internal/engine/audio"
	"github.com/folio3d/parkwalk/internal/engine/capture"
	"github.com/folio3d/parkwalk/internal/engine/lighting"
	"github.com/folio3d/parkwalk/internal/engine/renderer"
	"github.com/folio3d/parkwalk/internal/engine/window"
	"github.com/folio3d/parkwalk/internal/game"
	"github.com/folio3d/parkwalk/internal/game/info"
	"github.com/folio3d/parkwalk/internal/logger"
	"github.com/folio3d/parkwalk/internal/overlay"
)

const title = "parkwalk"

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== parkwalk ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("parkwalk failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("parkwalk closed normally")
}

func run(cfg *config.Config) error {
	gcfg, err := game.ConfigFrom(cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	catalog, err := info.Load(cfg.World.InfoCatalog)
	if err != nil {
		return fmt.Errorf("info catalog: %w", err)
	}

	// Window first: the renderer needs its GL context.
	win, err := window.New(window.Config{
		Title:      title + ": loading",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.Close()

	w, h := win.Size()
	ratio := max(min(win.PixelRatio(), cfg.Graphics.MaxPixelRatio), 1)
	rend, err := renderer.New(renderer.Config{
		Width:            int(float32(w) * ratio),
		Height:           int(float32(h) * ratio),
		Shadows:          cfg.Graphics.Shadows,
		ShadowResolution: cfg.Graphics.ShadowMapSize,
	})
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	theme, err := lighting.ParseTheme(cfg.Graphics.Theme)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	sound := openAudio(cfg.Audio)
	defer sound.Close()

	a := &app{
		win:     win,
		rend:    rend,
		shots:   capture.NewSaver(cfg.Debug.ScreenshotDir, title),
		audio:   sound,
		overlay: overlay.New(),
		catalog: catalog,
		state:   game.ExternalState{Muted: cfg.Audio.Muted, Theme: theme},
		log:     logger.Named("app"),
	}
	g := game.New(gcfg, rend, a)
	defer g.Close()
	a.game = g
	g.Apply(a.state)
	g.Resize(w, h, win.PixelRatio())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Debug.Addr != "" {
		srv := debugserver.New(cfg.Debug.Addr, g)
		go func() {
			if err := srv.Serve(ctx); err != nil {
				a.log.Error("debug server failed", zap.Error(err))
			}
		}()
	}

	g.Start(ctx)
	err = g.Run(ctx, a)
	savePreferences(cfg, a.state)
	return err
}

// savePreferences persists the mute and theme toggles when the player
// changed them during the session.
func savePreferences(cfg *config.Config, s game.ExternalState) {
	if s.Muted == cfg.Audio.Muted && s.Theme.String() == cfg.Graphics.Theme {
		return
	}
	if err := config.SavePreferences(s.Muted, s.Theme.String()); err != nil {
		logger.Warn("preferences not saved", zap.Error(err))
		return
	}
	logger.Info("preferences saved", zap.String("path", config.UserPath()))
}

// openAudio starts the speaker and loads the sound bank. Audio problems
// leave the park silent rather than failing it.
func openAudio(cfg config.AudioConfig) *audio.Manager {
	m := audio.New()
	m.SetVolumes(float64(cfg.MasterVolume), float64(cfg.MusicVolume), float64(cfg.SFXVolume))
	m.SetMuted(cfg.Muted)
	if err := m.Init(); err != nil {
		logger.Warn("audio disabled", zap.Error(err))
		return m
	}

	bank := []struct {
		sound game.Sound
		file  config.SoundFile
	}{
		{game.AmbientLoop, cfg.Sounds.Ambient},
		{game.InteractionChime, cfg.Sounds.Chime},
		{game.CreatureReaction, cfg.Sounds.Creature},
		{game.Jump, cfg.Sounds.Jump},
	}
	for _, b := range bank {
		if b.file.Path == "" {
			continue
		}
		loop := b.sound == game.AmbientLoop
		if err := m.Load(b.sound.String(), b.file.Path, float64(b.file.Volume), loop); err != nil {
			logger.Warn("sound unavailable", zap.String("sound", b.sound.String()), zap.Error(err))
		}
	}
	return m
}

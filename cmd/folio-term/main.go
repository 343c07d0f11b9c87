// Command folio-term renders the portfolio in a terminal with the same motion
// engine the web pages are driven by.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/caarlos0/env/v11"
	"github.com/gdamore/tcell/v2"

	"github.com/Zachkp/folio/internal/motion"
)

type config struct {
	FPS           int           `env:"FOLIO_TERM_FPS" envDefault:"30"`
	MorphDuration time.Duration `env:"MORPH_DURATION" envDefault:"1500ms"`
	HoldDuration  time.Duration `env:"HOLD_DURATION" envDefault:"500ms"`
	FadeOut       time.Duration `env:"FADE_OUT_DURATION" envDefault:"0s"`
	MaxFrameDelta time.Duration `env:"MAX_FRAME_DELTA" envDefault:"100ms"`
	RevealGrid    string        `env:"REVEAL_GRID" envDefault:"6x4"`
	SkipIntro     bool          `env:"FOLIO_TERM_SKIP_INTRO"`
	LogFile       string        `env:"FOLIO_TERM_LOG"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.FPS < 1 || cfg.FPS > 240 {
		return config{}, fmt.Errorf("FOLIO_TERM_FPS must be between 1 and 240, got %d", cfg.FPS)
	}
	return cfg, nil
}

func (c config) morphConfig() motion.MorphConfig {
	return motion.MorphConfig{
		Morph:    c.MorphDuration,
		Hold:     c.HoldDuration,
		FadeOut:  c.FadeOut,
		MaxDelta: c.MaxFrameDelta,
	}
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "folio-term: %v\n", err)
		os.Exit(1)
	}

	// The screen owns the terminal, so logs only go somewhere when asked.
	log.SetOutput(io.Discard)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "folio-term: open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	a, err := newApp(screen, cfg)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "folio-term: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.poll()
	driver := motion.NewDriver(time.Second/time.Duration(cfg.FPS), motion.WithMaxDelta(cfg.MaxFrameDelta))
	err = driver.Run(ctx, a.step)
	a.close()
	screen.Fini()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("driver: %v", err)
	}
	log.Printf("Rendered %d frames", driver.Frames())
}

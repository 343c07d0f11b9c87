package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Zachkp/folio/internal/motion"
)

// Config is read from the environment (and .env, via godotenv autoload).
type Config struct {
	Port   string `env:"PORT" envDefault:"8080"`
	DBPath string `env:"PORTFOLIO_DB_PATH" envDefault:"portfolio.db"`

	SMTPHost string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`
	ToEmail  string `env:"TO_EMAIL"`

	AdminUsername     string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword     string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
	AdminSecret       string `env:"ADMIN_SECRET"`

	VisitorRetention time.Duration `env:"VISITOR_RETENTION" envDefault:"8760h"`

	IntroFPS      int           `env:"INTRO_FPS" envDefault:"30"`
	MorphDuration time.Duration `env:"MORPH_DURATION" envDefault:"1500ms"`
	HoldDuration  time.Duration `env:"HOLD_DURATION" envDefault:"500ms"`
	FadeOut       time.Duration `env:"FADE_OUT_DURATION" envDefault:"0s"`
	MaxFrameDelta time.Duration `env:"MAX_FRAME_DELTA" envDefault:"100ms"`

	RevealFadeIn     time.Duration `env:"REVEAL_FADE_IN" envDefault:"1s"`
	RevealMaxDelay   time.Duration `env:"REVEAL_MAX_DELAY" envDefault:"1200ms"`
	RevealColorDelay time.Duration `env:"REVEAL_COLOR_DELAY" envDefault:"1300ms"`
	RevealThreshold  float64       `env:"REVEAL_THRESHOLD" envDefault:"0.2"`
	RevealGrid       string        `env:"REVEAL_GRID" envDefault:"6x4"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.IntroFPS < 1 || cfg.IntroFPS > 240 {
		return Config{}, fmt.Errorf("INTRO_FPS must be between 1 and 240, got %d", cfg.IntroFPS)
	}
	if _, err := motion.NewMorph([]string{"check"}, cfg.morphConfig()); err != nil {
		return Config{}, fmt.Errorf("morph timing: %w", err)
	}
	if _, err := motion.NewGate(cfg.RevealThreshold, nil); err != nil {
		return Config{}, fmt.Errorf("REVEAL_THRESHOLD: %w", err)
	}
	if _, err := motion.NewReveal(cfg.revealConfig()); err != nil {
		return Config{}, fmt.Errorf("reveal timing: %w", err)
	}
	return cfg, nil
}

func (c Config) morphConfig() motion.MorphConfig {
	return motion.MorphConfig{
		Morph:    c.MorphDuration,
		Hold:     c.HoldDuration,
		FadeOut:  c.FadeOut,
		MaxDelta: c.MaxFrameDelta,
	}
}

func (c Config) revealConfig() motion.RevealConfig {
	return motion.RevealConfig{
		Grid:       motion.ResolveGrid(c.RevealGrid, nil),
		FadeIn:     c.RevealFadeIn,
		MaxDelay:   c.RevealMaxDelay,
		ColorDelay: c.RevealColorDelay,
		Grayscale:  true,
		Threshold:  c.RevealThreshold,
	}
}

func (c Config) frameInterval() time.Duration {
	return time.Second / time.Duration(c.IntroFPS)
}

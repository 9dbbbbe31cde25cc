package config

import (
	"fmt"
	"runtime"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	TimelinePath   string `env:"TIMELINE"`
	ExportTimeline string `env:"EXPORT_TIMELINE"`
	OutputVideo    string `env:"OUTPUT"`
	AssetsDir      string `env:"ASSETS" envDefault:"assets"`
	Width          int    `env:"WIDTH"`
	Height         int    `env:"HEIGHT"`
	Workers        int    `env:"WORKERS"`
	Preset         string `env:"PRESET"`
	VideoEncoder   string `env:"ENCODER"`
	Quality        int    `env:"QUALITY"`
	ShowStats      bool   `env:"STATS"`
	NoAudio        bool   `env:"NO_AUDIO"`
	// Кадры для одиночных режимов, -1 = выключено
	StillFrame   int    `env:"STILL" envDefault:"-1"`
	StateFrame   int    `env:"STATE" envDefault:"-1"`
	PreviewFrame int    `env:"PREVIEW" envDefault:"-1"`
	BuildVersion string
}

type EncodeParams struct {
	Width, Height int
	FPS           int
	Frames        int
	Encoder       string
	Quality       int
	Output        string
}

// Duration is the length of the encoded video in seconds
func (p EncodeParams) Duration() float64 {
	if p.FPS <= 0 {
		return 0
	}
	return float64(p.Frames) / float64(p.FPS)
}

// EnvPrefix namespaces every environment variable
const EnvPrefix = "PACKPREVIEW_"

// FromEnv returns the defaults overridden by PACKPREVIEW_* variables
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg, nil
}

// ApplyPreset resolves the output size. An explicit preset wins over
// width/height, and a zero size falls back to the timeline's own.
func (c *Config) ApplyPreset(defaultW, defaultH int) error {
	switch c.Preset {
	case "":
	case "16:9":
		c.Width, c.Height = 1280, 720
	case "9:16":
		c.Width, c.Height = 720, 1280
	case "4:5":
		c.Width, c.Height = 1080, 1350
	case "1080p":
		c.Width, c.Height = 1920, 1080
	default:
		return fmt.Errorf("неизвестный пресет %q", c.Preset)
	}

	if c.Width <= 0 || c.Height <= 0 {
		c.Width, c.Height = defaultW, defaultH
	}
	// yuv420p требует чётных размеров
	c.Width &^= 1
	c.Height &^= 1
	return nil
}

// DefaultQuality is the automatic quality value for an encoder
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75 // Хорошее качество для VideoToolbox
	case "h264_nvenc":
		return 28 // Эквивалент CRF для NVENC
	default:
		return 23 // Стандартный CRF для x264
	}
}

package config

import (
	"runtime"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.AssetsDir != "assets" {
		t.Errorf("Expected assets dir 'assets', got %q", cfg.AssetsDir)
	}
	if cfg.StillFrame != -1 || cfg.StateFrame != -1 || cfg.PreviewFrame != -1 {
		t.Errorf("Single frame modes must be off by default: %+v", cfg)
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("Expected %d workers, got %d", runtime.NumCPU(), cfg.Workers)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PACKPREVIEW_OUTPUT", "out.mp4")
	t.Setenv("PACKPREVIEW_WORKERS", "3")
	t.Setenv("PACKPREVIEW_STILL", "120")
	t.Setenv("PACKPREVIEW_NO_AUDIO", "true")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.OutputVideo != "out.mp4" || cfg.Workers != 3 || cfg.StillFrame != 120 || !cfg.NoAudio {
		t.Errorf("Environment not applied: %+v", cfg)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	t.Setenv("PACKPREVIEW_QUALITY", "high")
	if _, err := FromEnv(); err == nil {
		t.Error("Expected error for non-numeric quality")
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset        string
		width, height int
		expW, expH    int
		wantErr       bool
	}{
		{"", 0, 0, 1920, 1080, false},
		{"", 1281, 721, 1280, 720, false},
		{"16:9", 640, 480, 1280, 720, false},
		{"9:16", 0, 0, 720, 1280, false},
		{"4:5", 0, 0, 1080, 1350, false},
		{"1080p", 0, 0, 1920, 1080, false},
		{"21:9", 0, 0, 0, 0, true},
	}

	for _, tt := range tests {
		cfg := &Config{Preset: tt.preset, Width: tt.width, Height: tt.height}
		err := cfg.ApplyPreset(1920, 1080)
		if (err != nil) != tt.wantErr {
			t.Errorf("Preset %q: unexpected error %v", tt.preset, err)
			continue
		}
		if tt.wantErr {
			continue
		}
		if cfg.Width != tt.expW || cfg.Height != tt.expH {
			t.Errorf("Preset %q: expected %dx%d, got %dx%d", tt.preset, tt.expW, tt.expH, cfg.Width, cfg.Height)
		}
	}
}

func TestDefaultQuality(t *testing.T) {
	for enc, q := range map[string]int{"h264_videotoolbox": 75, "h264_nvenc": 28, "libx264": 23, "": 23} {
		if got := DefaultQuality(enc); got != q {
			t.Errorf("Encoder %q: expected %d, got %d", enc, q, got)
		}
	}
}

func TestEncodeParamsDuration(t *testing.T) {
	p := EncodeParams{FPS: 30, Frames: 840}
	if d := p.Duration(); d != 28 {
		t.Errorf("Expected 28s, got %f", d)
	}
	if d := (EncodeParams{Frames: 10}).Duration(); d != 0 {
		t.Errorf("Expected 0 for zero fps, got %f", d)
	}
}

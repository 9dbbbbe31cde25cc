package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/ivlev/packpreview/internal/config"
	"github.com/ivlev/packpreview/internal/engine"
	"github.com/ivlev/packpreview/internal/system"
	"github.com/ivlev/packpreview/internal/timeline"
	"github.com/ivlev/packpreview/internal/video"
)

// Задаётся при сборке: -ldflags "-X main.BuildVersion=..."
var BuildVersion = "dev"

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}
	cfg.BuildVersion = BuildVersion

	flag.StringVar(&cfg.OutputVideo, "output", cfg.OutputVideo, "Путь к видео или PNG (если пусто, генерируется автоматически в output/)")
	flag.StringVar(&cfg.TimelinePath, "timeline", cfg.TimelinePath, "YAML-таймлайн или папка с ними (берётся самый свежий). По умолчанию встроенный")
	flag.StringVar(&cfg.ExportTimeline, "export-timeline", cfg.ExportTimeline, "Сохранить активный таймлайн в YAML и выйти (auto = output/timeline_<время>.yaml)")
	flag.StringVar(&cfg.AssetsDir, "assets", cfg.AssetsDir, "Папка ассетов, звуки ищутся в <assets>/sounds/")
	flag.IntVar(&cfg.StillFrame, "still", cfg.StillFrame, "Отрендерить один кадр в PNG и выйти")
	flag.IntVar(&cfg.StateFrame, "state", cfg.StateFrame, "Вывести состояние сцены на кадре в YAML и выйти")
	flag.IntVar(&cfg.PreviewFrame, "preview", cfg.PreviewFrame, "Показать терминал на кадре в консоли и выйти")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Потоки рендеринга")
	flag.IntVar(&cfg.Quality, "quality", cfg.Quality, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	flag.StringVar(&cfg.Preset, "preset", cfg.Preset, "Пресет формата: 1080p, 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "Ширина (0 - из таймлайна)")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "Высота (0 - из таймлайна)")
	flag.BoolVar(&cfg.ShowStats, "stats", cfg.ShowStats, "Показать отчёт о производительности и дописать benchmark.log")
	flag.BoolVar(&cfg.NoAudio, "no-audio", cfg.NoAudio, "Собрать видео без звука")

	flag.Parse()

	tl := loadTimeline(cfg.TimelinePath)
	if err := timeline.Validate(tl); err != nil {
		log.Printf("[!] Таймлайн с ошибкой: %v", err)
	}

	if err := cfg.ApplyPreset(tl.Width, tl.Height); err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	project := engine.NewProject(cfg, tl, &video.FFmpegEncoder{})

	switch {
	case cfg.ExportTimeline != "":
		path := cfg.ExportTimeline
		if path == "auto" {
			path = ""
		}
		saved, err := project.ExportTimeline(path)
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		fmt.Printf("[+++] Таймлайн сохранён: %s\n", saved)
		return

	case cfg.StateFrame >= 0:
		if err := project.DumpState(os.Stdout, cfg.StateFrame); err != nil {
			log.Fatalf("[-] %v", err)
		}
		return

	case cfg.PreviewFrame >= 0:
		if err := project.Preview(os.Stdout, cfg.PreviewFrame); err != nil {
			log.Fatalf("[-] %v", err)
		}
		return

	case cfg.StillFrame >= 0:
		path := cfg.OutputVideo
		if path == "" {
			path = filepath.Join("output", fmt.Sprintf("frame_%04d.png", cfg.StillFrame))
		}
		if err := project.RenderStill(ctx, cfg.StillFrame, path); err != nil {
			log.Fatalf("[-] Ошибка рендеринга кадра: %v", err)
		}
		fmt.Printf("[+++] Кадр %d сохранён: %s\n", cfg.StillFrame, path)
		return
	}

	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	if cfg.OutputVideo == "" {
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		cfg.OutputVideo = filepath.Join("output", fmt.Sprintf("soviet-engineer_%s.mp4", timestamp))
	}

	if cfg.VideoEncoder == "" {
		cfg.VideoEncoder, _ = system.GetBestH264Encoder()
		if cfg.VideoEncoder != "libx264" {
			fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", cfg.VideoEncoder)
		}
	}
	if cfg.Quality == 0 {
		cfg.Quality = config.DefaultQuality(cfg.VideoEncoder)
	}

	if err := project.Run(ctx); err != nil {
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}

	fmt.Printf("[+++] Успех! Результат: %s\n", cfg.OutputVideo)
}

func loadTimeline(path string) *timeline.Timeline {
	if path == "" {
		return timeline.Default()
	}

	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		latest, err := timeline.FindLatest(path)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		path = latest
	}

	tl, err := timeline.ReadTimeline(path)
	if err != nil {
		log.Fatalf("[-] Ошибка чтения таймлайна: %v", err)
	}
	// В stderr, чтобы не портить вывод -state и -preview
	log.Printf("[*] Используется таймлайн: %s", path)
	return tl
}

package engine

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/packpreview/internal/ansi"
	"github.com/ivlev/packpreview/internal/audio"
	"github.com/ivlev/packpreview/internal/config"
	"github.com/ivlev/packpreview/internal/raster"
	"github.com/ivlev/packpreview/internal/scene"
	"github.com/ivlev/packpreview/internal/system"
	"github.com/ivlev/packpreview/internal/timeline"
	"github.com/ivlev/packpreview/internal/video"
)

// Фильтры ffmpeg, без которых звук не смешать
var mixFilters = []string{"atrim", "asetpts", "volume", "adelay", "amix"}

type Project struct {
	Config   *config.Config
	Timeline *timeline.Timeline
	Encoder  video.VideoEncoder
	Resolver *audio.Resolver

	// Для тестов: проверка ffmpeg и ffprobe отключается
	skipProbe bool
}

func NewProject(cfg *config.Config, tl *timeline.Timeline, ve video.VideoEncoder) *Project {
	return &Project{
		Config:   cfg,
		Timeline: tl,
		Encoder:  ve,
		Resolver: audio.NewResolver(cfg.AssetsDir),
	}
}

type renderStats struct {
	renderNanos atomic.Int64
	frames      atomic.Int64
}

// Run рендерит все кадры пулом воркеров и по порядку отдаёт их энкодеру
func (p *Project) Run(ctx context.Context) error {
	startTime := time.Now()
	runID := uuid.New().String()
	tl := p.Timeline
	total := tl.DurationFrames
	if total <= 0 || tl.FPS <= 0 {
		return fmt.Errorf("некорректный таймлайн: %d кадров при %d FPS", total, tl.FPS)
	}

	fmt.Println("--- [PROJECT: PACK PREVIEW] ---")
	fmt.Printf("[*] Run: %s\n", runID)
	fmt.Printf("[*] Событий: %d | Кадров: %d (%.1fs)\n", len(tl.Events), total, float64(total)/float64(tl.FPS))
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Энкодер: %s (q=%d)\n",
		p.Config.Width, p.Config.Height, tl.FPS, p.Config.VideoEncoder, p.Config.Quality)
	fmt.Println("-----------------------------")

	var cues []audio.Cue
	var resolver *audio.Resolver
	if !p.Config.NoAudio {
		cues = p.CheckAudio()
		if len(cues) > 0 {
			resolver = p.Resolver
		}
	}

	params := config.EncodeParams{
		Width:   p.Config.Width,
		Height:  p.Config.Height,
		FPS:     tl.FPS,
		Frames:  total,
		Encoder: p.Config.VideoEncoder,
		Quality: p.Config.Quality,
		Output:  p.Config.OutputVideo,
	}

	if err := os.MkdirAll(filepath.Dir(params.Output), 0755); err != nil {
		return fmt.Errorf("не удалось создать папку для видео: %w", err)
	}

	// ffmpeg живёт дольше errgroup: его контекст отменяется только при ошибке
	encCtx, cancelEnc := context.WithCancel(ctx)
	defer cancelEnc()

	stream, err := p.Encoder.Open(encCtx, params, cues, resolver)
	if err != nil {
		return fmt.Errorf("ошибка запуска энкодера: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	rect := image.Rect(0, 0, params.Width, params.Height)
	pool := system.NewFramePool(rect)

	workers := p.Config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > total {
		workers = total
	}
	window := system.FrameWindow(uint64(rect.Dx()*rect.Dy()*4), workers)

	// jobs -> renderPool -> slots[i] -> writer
	jobs := make(chan int)
	slots := make([]chan *image.RGBA, total)
	for i := range slots {
		slots[i] = make(chan *image.RGBA, 1)
	}
	tokens := make(chan struct{}, window)
	var stats renderStats

	// 1. Раздача кадров, не больше window кадров в памяти
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < total; i++ {
			select {
			case tokens <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	// 2. Render Pool (CPU bound), у каждого воркера свой Renderer
	renderStart := time.Now()
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			r, err := raster.NewRenderer(tl, params.Width, params.Height)
			if err != nil {
				return fmt.Errorf("ошибка инициализации рендера: %w", err)
			}
			defer r.Close()

			for i := range jobs {
				t0 := time.Now()
				img := pool.Get()
				r.Draw(img, scene.Compute(tl, i))
				stats.renderNanos.Add(int64(time.Since(t0)))
				slots[i] <- img
			}
			return nil
		})
	}

	// 3. Запись строго по порядку кадров
	g.Go(func() error {
		for i := 0; i < total; i++ {
			var img *image.RGBA
			select {
			case img = <-slots[i]:
			case <-gctx.Done():
				return gctx.Err()
			}
			if err := stream.WriteFrame(img); err != nil {
				return err
			}
			pool.Put(img)
			<-tokens
			stats.frames.Add(1)

			if (i+1)%tl.FPS == 0 || i+1 == total {
				fmt.Printf("[>] Ready: %d/%d\n", i+1, total)
			}
		}
		return nil
	})

	runErr := g.Wait()
	renderEnd := time.Now()
	if runErr != nil {
		cancelEnc()
	}
	closeErr := stream.Close()
	if runErr != nil {
		return fmt.Errorf("ошибка рендеринга: %w", runErr)
	}
	if closeErr != nil {
		return fmt.Errorf("ошибка кодирования: %w", closeErr)
	}

	if p.Config.ShowStats {
		allocated, reused := pool.Stats()
		p.report(runID, startTime, renderStart, renderEnd, &stats, window, allocated, reused)
	}
	return nil
}

func (p *Project) report(runID string, startTime, renderStart, renderEnd time.Time, stats *renderStats, window int, allocated, reused int64) {
	totalTime := time.Since(startTime)
	wallRender := renderEnd.Sub(renderStart)
	cpuRender := time.Duration(stats.renderNanos.Load())
	frames := stats.frames.Load()
	fps := float64(frames) / totalTime.Seconds()

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Run: %s\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Render + Encode (wall): %.2fs\n"+
			"Rendering (CPU, all workers): %.2fs\n"+
			"Workers: %d | Frame window: %d\n"+
			"Frame buffers: %d allocated, %d reused\n"+
			"Memory: %s\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		runID, p.Config.BuildVersion, totalTime.Seconds(), wallRender.Seconds(), cpuRender.Seconds(),
		p.Config.Workers, window, allocated, reused, system.MemoryReport(), fps,
	)
	fmt.Print(report)

	// Логирование в файл
	logEntry := fmt.Sprintf("[%s] Run: %s | Build: %s | Output: %s | Frames: %d | Total: %.2fs | Render: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		runID,
		p.Config.BuildVersion,
		filepath.Base(p.Config.OutputVideo),
		frames,
		totalTime.Seconds(),
		cpuRender.Seconds(),
		fps,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
	}
}

// CheckAudio проверяет звуковые ассеты и возвращает только те реплики,
// которые можно смешать. Отсутствующие файлы не являются ошибкой.
func (p *Project) CheckAudio() []audio.Cue {
	cues := audio.Schedule(p.Timeline)
	if len(cues) == 0 {
		return nil
	}

	for _, c := range p.Resolver.Missing(cues) {
		log.Printf("[!] Нет звука %s (кадр %d), реплика пропущена", p.Resolver.Path(c.Clip), c.StartFrame)
	}
	for _, c := range cues {
		if !system.IsAudio(c.Clip) {
			log.Printf("[!] %s не похож на аудио-файл", c.Clip)
		}
	}
	available := p.Resolver.Available(cues)
	if len(available) == 0 {
		return nil
	}

	if p.skipProbe {
		return available
	}

	if missing, err := system.CheckFilterSupport(mixFilters...); err != nil {
		log.Printf("[!] Не удалось проверить фильтры ffmpeg: %v", err)
	} else if len(missing) > 0 {
		log.Printf("[!] ffmpeg без фильтров %v, видео будет без звука", missing)
		return nil
	}

	for _, c := range available {
		d, err := system.GetAudioDuration(p.Resolver.Path(c.Clip))
		if err != nil {
			log.Printf("[!] Не удалось получить длительность %s: %v", c.Clip, err)
			continue
		}
		window := float64(c.DurationFrames) / float64(p.Timeline.FPS)
		if d > window {
			fmt.Printf("[*] %s (%.2fs) будет обрезан до %.2fs\n", c.Clip, d, window)
		}
	}

	if names, err := system.ListAudio(filepath.Join(p.Resolver.Root, audio.SoundsDir)); err == nil {
		fmt.Printf("[*] Звуков в паке: %d, используется: %d\n", len(names), len(available))
	}
	return available
}

// RenderStill сохраняет один кадр в PNG
func (p *Project) RenderStill(ctx context.Context, frame int, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r, err := raster.NewRenderer(p.Timeline, p.Config.Width, p.Config.Height)
	if err != nil {
		return fmt.Errorf("ошибка инициализации рендера: %w", err)
	}
	defer r.Close()

	img := r.Frame(scene.Compute(p.Timeline, frame))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("не удалось создать папку для кадра: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("png encode: %w", err)
	}
	return f.Close()
}

// DumpState пишет состояние сцены на кадре в YAML
func (p *Project) DumpState(w io.Writer, frame int) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(scene.Compute(p.Timeline, frame)); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

// Preview печатает терминал на кадре цветным текстом
func (p *Project) Preview(w io.Writer, frame int) error {
	return ansi.Render(w, scene.Compute(p.Timeline, frame))
}

// ExportTimeline сохраняет активный таймлайн. Пустой path означает
// новый файл с меткой времени в папке output.
func (p *Project) ExportTimeline(path string) (string, error) {
	if path == "" {
		path = timeline.GeneratePath("output")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := timeline.WriteTimeline(p.Timeline, path); err != nil {
		return "", fmt.Errorf("ошибка записи таймлайна: %w", err)
	}
	return path, nil
}

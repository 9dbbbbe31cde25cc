package video

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"

	"github.com/ivlev/packpreview/internal/audio"
	"github.com/ivlev/packpreview/internal/config"
)

type VideoEncoder interface {
	Open(ctx context.Context, params config.EncodeParams, cues []audio.Cue, resolver *audio.Resolver) (FrameWriter, error)
}

// FrameWriter принимает кадры строго по порядку
type FrameWriter interface {
	WriteFrame(img image.Image) error
	Close() error
}

type FFmpegEncoder struct{}

// Stream is one running ffmpeg process fed with raw RGBA frames
type Stream struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	frames int
	closed bool
}

func (e *FFmpegEncoder) Open(
	ctx context.Context,
	params config.EncodeParams,
	cues []audio.Cue,
	resolver *audio.Resolver,
) (FrameWriter, error) {
	args := e.buildFFmpegArgs(params, cues, resolver)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}

	return &Stream{cmd: cmd, stdin: stdin}, nil
}

func (e *FFmpegEncoder) buildFFmpegArgs(
	params config.EncodeParams,
	cues []audio.Cue,
	resolver *audio.Resolver,
) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
	}

	// Каждый клип отдельным входом, номера входов начинаются с 1
	if resolver != nil {
		for _, c := range cues {
			args = append(args, "-i", resolver.Path(c.Clip))
		}
	}

	graph, audioOut := "", ""
	if resolver != nil {
		graph, audioOut = audio.MixGraph(cues, 1, params.FPS)
	}
	if graph != "" {
		args = append(args, "-filter_complex", graph)
	}

	args = append(args, "-map", "0:v")
	if audioOut != "" {
		args = append(args, "-map", audioOut, "-c:a", "aac", "-b:a", "192k")
	}

	args = append(args,
		"-t", fmt.Sprintf("%f", params.Duration()),
		"-r", fmt.Sprintf("%d", params.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", params.Encoder,
	)
	args = append(args, QualityArgs(params.Encoder, params.Quality)...)
	args = append(args, "-movflags", "+faststart", params.Output)
	return args
}

// QualityArgs переводит единое значение качества в параметры энкодера
func QualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox часто не поддерживает -q:v напрямую на всех версиях. Используем битрейт.
		bitrate := quality * 100 // кбит/с. 75 -> 7.5Мбит/с
		return []string{"-b:v", fmt.Sprintf("%dk", bitrate)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

// WriteFrame отправляет один кадр в ffmpeg
func (s *Stream) WriteFrame(img image.Image) error {
	if s.closed {
		return fmt.Errorf("write to closed stream")
	}
	if err := writeRawRGBA(s.stdin, img); err != nil {
		return fmt.Errorf("write raw error (frame %d): %w", s.frames, err)
	}
	s.frames++
	return nil
}

// Frames is the number of frames written so far
func (s *Stream) Frames() int {
	return s.frames
}

// Close закрывает stdin и дожидается завершения ffmpeg
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w", err)
	}
	return nil
}

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}

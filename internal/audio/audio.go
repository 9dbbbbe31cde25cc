package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivlev/packpreview/internal/timeline"
)

const (
	// WindowFrames is how long every cue plays
	WindowFrames = 50
	// Volume is the playback level of every cue
	Volume = 0.9
	// SoundsDir is where clips live under the assets root
	SoundsDir = "sounds"
)

// Cue is a scheduled playback of one clip
type Cue struct {
	Clip           string  `yaml:"clip"`
	StartFrame     int     `yaml:"start_frame"`
	DurationFrames int     `yaml:"duration_frames"`
	Volume         float64 `yaml:"volume"`
}

// EndFrame is the first frame after the cue
func (c Cue) EndFrame() int {
	return c.StartFrame + c.DurationFrames
}

// Contains reports whether the cue is playing at frame
func (c Cue) Contains(frame int) bool {
	return frame >= c.StartFrame && frame < c.EndFrame()
}

// Schedule creates one cue per sound-line event that names a clip.
// Overlapping cues are kept as is: they simply play together.
func Schedule(tl *timeline.Timeline) []Cue {
	var cues []Cue
	for _, e := range tl.Sounds() {
		cues = append(cues, Cue{
			Clip:           e.Sound,
			StartFrame:     e.Frame,
			DurationFrames: WindowFrames,
			Volume:         Volume,
		})
	}
	return cues
}

// Active returns the cues playing at frame
func Active(cues []Cue, frame int) []Cue {
	var active []Cue
	for _, c := range cues {
		if c.Contains(frame) {
			active = append(active, c)
		}
	}
	return active
}

// Resolver maps clip identifiers to files under an assets root
type Resolver struct {
	Root string
}

func NewResolver(root string) *Resolver {
	return &Resolver{Root: root}
}

// Path returns the file of a clip
func (r *Resolver) Path(clip string) string {
	return filepath.Join(r.Root, SoundsDir, clip)
}

// Missing returns the cues whose clip file does not exist
func (r *Resolver) Missing(cues []Cue) []Cue {
	var missing []Cue
	for _, c := range cues {
		if _, err := os.Stat(r.Path(c.Clip)); err != nil {
			missing = append(missing, c)
		}
	}
	return missing
}

// Available returns the cues whose clip file exists
func (r *Resolver) Available(cues []Cue) []Cue {
	var ok []Cue
	for _, c := range cues {
		if _, err := os.Stat(r.Path(c.Clip)); err == nil {
			ok = append(ok, c)
		}
	}
	return ok
}

// MixGraph builds an ffmpeg filter graph that plays cue i from input firstInput+i.
// Every clip is cut to its window, set to its volume and delayed to its start,
// then all of them are summed without normalisation. Returns the graph and the
// label of the mixed output, both empty when there are no cues.
func MixGraph(cues []Cue, firstInput int, fps int) (string, string) {
	if len(cues) == 0 {
		return "", ""
	}

	var b strings.Builder
	labels := make([]string, len(cues))
	for i, c := range cues {
		labels[i] = fmt.Sprintf("[c%d]", i)
		if len(cues) == 1 {
			labels[i] = "[aout]"
		}
		duration := float64(c.DurationFrames) / float64(fps)
		delayMs := c.StartFrame * 1000 / fps
		if delayMs < 0 {
			delayMs = 0
		}
		fmt.Fprintf(&b, "[%d:a]atrim=0:%.6f,asetpts=PTS-STARTPTS,volume=%.3f,adelay=%d:all=1%s;",
			firstInput+i, duration, c.Volume, delayMs, labels[i])
	}

	if len(cues) > 1 {
		fmt.Fprintf(&b, "%samix=inputs=%d:duration=longest:dropout_transition=0:normalize=0[aout]",
			strings.Join(labels, ""), len(cues))
	}

	return strings.TrimSuffix(b.String(), ";"), "[aout]"
}

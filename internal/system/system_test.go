package system

import (
	"image"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"
	"testing"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		out      string
		expected float64
		wantErr  bool
	}{
		{"1.567000\n", 1.567, false},
		{"  2.0  ", 2, false},
		{"N/A", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		d, err := parseDuration(tt.out)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: unexpected error %v", tt.out, err)
			continue
		}
		if d != tt.expected {
			t.Errorf("%q: expected %f, got %f", tt.out, tt.expected, d)
		}
	}
}

func TestPickEncoder(t *testing.T) {
	tests := []struct {
		list     string
		expected string
	}{
		{" V....D h264_videotoolbox VideoToolbox H.264 Encoder", "h264_videotoolbox"},
		{" V....D h264_nvenc NVIDIA NVENC H.264 encoder\n V....D libx264", "h264_nvenc"},
		{" V....D libx264 libx264 H.264", "libx264"},
		{"", "libx264"},
	}

	for _, tt := range tests {
		if got := pickEncoder(tt.list); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}

func TestMissingFilters(t *testing.T) {
	list := `Filters:
  T.. = Timeline support
 ... adelay            A->A       Delay one or more audio channels.
 ... amix              N->A       Audio mixing.
 ... atrim             A->A       Pick one continuous section from the input, drop the rest.`

	missing := missingFilters(list, []string{"adelay", "amix", "atrim", "volume", "asetpts"})
	if !reflect.DeepEqual(missing, []string{"volume", "asetpts"}) {
		t.Errorf("Unexpected missing filters %v", missing)
	}
}

func TestListAudio(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"PowerUp.mp3", "Engineering.WAV", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	os.Mkdir(filepath.Join(dir, "sub.mp3"), 0755)

	names, err := ListAudio(dir)
	if err != nil {
		t.Fatalf("ListAudio failed: %v", err)
	}
	sort.Strings(names)
	if !reflect.DeepEqual(names, []string{"Engineering.WAV", "PowerUp.mp3"}) {
		t.Errorf("Unexpected clips %v", names)
	}

	if _, err := ListAudio(t.TempDir()); err == nil {
		t.Error("Expected error for a folder without audio")
	}
}

func TestIsAudio(t *testing.T) {
	for path, want := range map[string]bool{"a.mp3": true, "B.OGG": true, "c.png": false, "noext": false} {
		if got := IsAudio(path); got != want {
			t.Errorf("%s: expected %v", path, want)
		}
	}
}

func TestWindowFor(t *testing.T) {
	const frame = 8 << 20 // 1920x1080 RGBA, rounded up

	tests := []struct {
		available uint64
		workers   int
		expected  int
	}{
		{0, 4, 4},
		{64 << 20, 4, 4},
		{160 << 20, 4, 5},
		{16 << 30, 4, 16},
	}

	for _, tt := range tests {
		if got := windowFor(tt.available, frame, tt.workers); got != tt.expected {
			t.Errorf("available=%d workers=%d: expected %d, got %d", tt.available, tt.workers, tt.expected, got)
		}
	}
}

func TestFrameWindowBounds(t *testing.T) {
	n := FrameWindow(1920*1080*4, 3)
	t.Logf("Frame window on this host: %d", n)
	if n < 3 || n > 12 {
		t.Errorf("Window %d outside [3, 12]", n)
	}
}

func TestFramePool(t *testing.T) {
	rect := image.Rect(0, 0, 8, 4)
	p := NewFramePool(rect)

	img := p.Get()
	if img.Rect != rect {
		t.Fatalf("Unexpected rect %v", img.Rect)
	}
	p.Put(img)
	p.Put(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	p.Put(nil)

	for i := 0; i < 3; i++ {
		if got := p.Get(); got.Rect != rect {
			t.Errorf("Pool returned a frame of size %v", got.Rect)
		}
	}

	allocated, reused := p.Stats()
	t.Logf("allocated=%d reused=%d", allocated, reused)
	if allocated+reused != 4 {
		t.Errorf("Expected 4 gets in total, got %d", allocated+reused)
	}
}

func TestFramePoolConcurrentStats(t *testing.T) {
	rect := image.Rect(0, 0, 4, 4)
	p := NewFramePool(rect)

	const workers, perWorker = 8, 200
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				img := p.Get()
				img.Pix[0] = byte(i)
				p.Put(img)
			}
		}()
	}
	wg.Wait()

	allocated, reused := p.Stats()
	t.Logf("allocated=%d reused=%d", allocated, reused)
	if allocated < 1 || reused < 0 {
		t.Errorf("Invalid counters: allocated=%d reused=%d", allocated, reused)
	}
	if allocated+reused != workers*perWorker {
		t.Errorf("Expected %d gets in total, got %d", workers*perWorker, allocated+reused)
	}
}

package system

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/mem"
)

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось получить лимит файлов: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось установить лимит файлов: %v", err)
	} else {
		fmt.Printf("[*] Системный лимит открытых файлов увеличен до %d\n", rLimit.Cur)
	}
}

var audioExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".aac", ".flac"}

// ListAudio возвращает имена аудио-файлов в папке
func ListAudio(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		for _, ext := range audioExtensions {
			if strings.HasSuffix(strings.ToLower(f.Name()), ext) {
				names = append(names, f.Name())
				break
			}
		}
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("в папке %s не найдено аудио-файлов", dir)
	}
	return names, nil
}

// IsAudio reports whether path has a known audio extension
func IsAudio(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range audioExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func GetAudioDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, err
	}

	return parseDuration(string(out))
}

func parseDuration(out string) (float64, error) {
	var duration float64
	if _, err := fmt.Sscanf(strings.TrimSpace(out), "%f", &duration); err != nil {
		return 0, fmt.Errorf("ffprobe output %q: %w", strings.TrimSpace(out), err)
	}
	return duration, nil
}

func GetBestH264Encoder() (string, string) {
	// Приоритеты:
	// 1. MacOS (VideoToolbox)
	// 2. NVIDIA (NVENC)
	// 3. Software (libx264)
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264", ""
	}
	return pickEncoder(string(out)), ""
}

func pickEncoder(list string) string {
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(list, name) {
			return name
		}
	}
	return "libx264"
}

// CheckFilterSupport возвращает фильтры из списка, которых нет в ffmpeg
func CheckFilterSupport(filters ...string) ([]string, error) {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-filters").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg -filters: %w", err)
	}
	return missingFilters(string(out), filters), nil
}

func missingFilters(list string, filters []string) []string {
	known := make(map[string]bool)
	for _, line := range strings.Split(list, "\n") {
		// " ... amix              N->A       Audio mixing."
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			known[fields[1]] = true
		}
	}

	var missing []string
	for _, f := range filters {
		if !known[f] {
			missing = append(missing, f)
		}
	}
	return missing
}

// FrameWindow is how many rendered frames may wait for the encoder at once.
// It spends at most a quarter of the available memory and never drops below
// one frame per worker.
func FrameWindow(frameBytes uint64, workers int) int {
	if workers < 1 {
		workers = 1
	}
	vm, err := mem.VirtualMemory()
	if err != nil || frameBytes == 0 {
		return workers * 2
	}
	return windowFor(vm.Available, frameBytes, workers)
}

func windowFor(available, frameBytes uint64, workers int) int {
	n := int(available / 4 / frameBytes)
	if n < workers {
		n = workers
	}
	if n > workers*4 {
		n = workers * 4
	}
	return n
}

// MemoryReport описывает память хоста для отчёта
func MemoryReport() string {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f/%.1f GiB used (%.0f%%)",
		float64(vm.Used)/(1<<30), float64(vm.Total)/(1<<30), vm.UsedPercent)
}

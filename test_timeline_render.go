package main

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/packpreview/internal/audio"
	"github.com/ivlev/packpreview/internal/raster"
	"github.com/ivlev/packpreview/internal/scene"
	"github.com/ivlev/packpreview/internal/timeline"
)

// Key moments of the built-in timeline, one thumbnail each
var sheetFrames = []int{30, 100, 200, 350, 480, 600, 700, 800}

const (
	thumbW  = 480
	thumbH  = 270
	columns = 4
)

func main() {
	tl := timeline.Default()
	timelinePath := timeline.GeneratePath("output")
	sheetPath := filepath.Join("output", "contact_sheet.png")

	fmt.Println("=== Timeline Render Test ===")
	fmt.Printf("Output: %s, %s\n\n", timelinePath, sheetPath)

	// Step 1: Validate and export the built-in timeline
	fmt.Println("[1/3] Validating timeline...")
	if err := timeline.Validate(tl); err != nil {
		log.Fatalf("Invalid timeline: %v", err)
	}
	if err := os.MkdirAll("output", 0755); err != nil {
		log.Fatalf("Failed to create output folder: %v", err)
	}
	if err := timeline.WriteTimeline(tl, timelinePath); err != nil {
		log.Fatalf("Failed to write timeline: %v", err)
	}
	fmt.Printf("✓ %d events, %d frames @ %d fps\n\n", len(tl.Events), tl.DurationFrames, tl.FPS)

	// Step 2: Render key frames at full size and shrink them onto a sheet
	fmt.Println("[2/3] Rendering key frames...")
	r, err := raster.NewRenderer(tl, tl.Width, tl.Height)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer r.Close()

	rows := (len(sheetFrames) + columns - 1) / columns
	sheet := image.NewRGBA(image.Rect(0, 0, columns*thumbW, rows*thumbH))
	frame := image.NewRGBA(r.Bounds())
	for i, f := range sheetFrames {
		st := scene.Compute(tl, f)
		r.Draw(frame, st)

		cell := image.Rect(0, 0, thumbW, thumbH).Add(image.Pt((i%columns)*thumbW, (i/columns)*thumbH))
		xdraw.CatmullRom.Scale(sheet, cell, frame, frame.Bounds(), draw.Src, nil)
		fmt.Printf("  frame %3d: %q, %d lines\n", f, st.Terminal.TabTitle, len(st.Terminal.Lines))
	}

	f, err := os.Create(sheetPath)
	if err != nil {
		log.Fatalf("Failed to create sheet file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, sheet); err != nil {
		log.Fatalf("Failed to encode sheet: %v", err)
	}
	fmt.Printf("✓ Contact sheet saved to: %s\n\n", sheetPath)

	// Step 3: Audio schedule summary
	fmt.Println("[3/3] Audio schedule...")
	for _, c := range audio.Schedule(tl) {
		fmt.Printf("  %-20s frames %3d-%3d  volume %.1f\n", c.Clip, c.StartFrame, c.EndFrame()-1, c.Volume)
	}

	fmt.Println("\n✅ Test completed successfully!")
	fmt.Printf("📄 View timeline: cat %s\n", timelinePath)
}

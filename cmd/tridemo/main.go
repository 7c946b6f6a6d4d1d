// Command tridemo renders the compute-fed triangle to PNG files.
//
// A single frame renders the canonical red/green/blue selection. With
// -frames > 1 the selection cycles the palette uniformly every 60 frames,
// writing one numbered PNG per frame. The color generator runs on the GPU
// when one is available and falls back to the CPU kernel otherwise; run
// with -v to see which.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/tri"
)

func main() {
	var (
		width   = flag.Int("width", 400, "render target width")
		height  = flag.Int("height", 400, "render target height")
		frames  = flag.Int("frames", 1, "number of frames to render")
		scale   = flag.Int("scale", 1, "integer upscale factor for the output")
		output  = flag.String("output", "triangle.png", "output file, or directory when frames > 1")
		cpuOnly = flag.Bool("cpu", false, "force the CPU color generator")
		compare = flag.Bool("compare", false, "render through both generators and report the pixel diff")
		verbose = flag.Bool("v", false, "log executor activity to stderr")
	)
	flag.Parse()

	if *verbose {
		tri.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg := tri.RendererConfig{}
	if *cpuOnly {
		cfg.Executor = tri.CPUExecutor{}
	}
	r := tri.NewRendererWith(cfg)
	log.Printf("color generator: %s", generatorName(cfg))

	if *compare {
		if err := compareGenerators(*width, *height); err != nil {
			log.Fatalf("compare: %v", err)
		}
	}

	if err := renderFrames(r, *width, *height, *frames, *scale, *output); err != nil {
		log.Fatal(err)
	}
}

func generatorName(cfg tri.RendererConfig) string {
	if cfg.Executor != nil {
		return cfg.Executor.Name() + " (forced)"
	}
	return tri.ActiveExecutor().Name()
}

// selectionFor returns the palette selection for a frame: the canonical
// red/green/blue triangle for single-frame runs, the uniform palette
// cycle for sequences.
func selectionFor(frame, frames int) tri.Selection {
	if frames <= 1 {
		return tri.Selection{0, 1, 2}
	}
	return tri.UniformSelection(uint32(frame/60) % tri.PaletteSize)
}

func renderFrames(r *tri.Renderer, width, height, frames, scale int, output string) error {
	if frames > 1 {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for frame := 0; frame < frames; frame++ {
		sel := selectionFor(frame, frames)
		if err := r.RenderFrame(img, sel, tri.RGB(0, 0, 0)); err != nil {
			return fmt.Errorf("render frame %d %v: %w", frame, sel, err)
		}

		path := output
		if frames > 1 {
			path = filepath.Join(output, fmt.Sprintf("frame_%04d.png", frame))
		}
		if err := savePNG(upscale(img, scale), path); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}

	if frames > 1 {
		log.Printf("saved %d frames to %s", frames, output)
	} else {
		log.Printf("saved %s (%dx%d)", output, width*scale, height*scale)
	}
	return nil
}

// compareGenerators renders the same frame through the active generator
// and the CPU reference and reports how many pixels differ.
func compareGenerators(width, height int) error {
	active := tri.ActiveExecutor()
	if active.Name() == "cpu" {
		log.Print("compare: only the CPU generator is active, skipping")
		return nil
	}

	sel := tri.Selection{0, 1, 2}
	clear := tri.RGB(0, 0, 0)

	got := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := tri.NewRenderer().RenderFrame(got, sel, clear); err != nil {
		return err
	}
	want := image.NewRGBA(image.Rect(0, 0, width, height))
	cpuRenderer := tri.NewRendererWith(tri.RendererConfig{Executor: tri.CPUExecutor{}})
	if err := cpuRenderer.RenderFrame(want, sel, clear); err != nil {
		return err
	}

	diff := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if got.RGBAAt(x, y) != want.RGBAAt(x, y) {
				diff++
			}
		}
	}
	total := width * height
	pct := float64(diff) / float64(total) * 100
	status := "PASS"
	if pct > 1.0 {
		status = "FAIL"
	}
	log.Printf("compare: %s vs cpu: %d/%d pixels differ (%.2f%%) %s",
		active.Name(), diff, total, pct, status)
	if status == "FAIL" {
		return errors.New("generator outputs diverge")
	}
	return nil
}

// upscale enlarges img by an integer factor with nearest-neighbor
// sampling, keeping the triangle edges crisp.
func upscale(img *image.RGBA, factor int) *image.RGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// savePNG writes an RGBA image to a PNG file.
func savePNG(img *image.RGBA, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

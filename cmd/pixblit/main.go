// Command pixblit renders a pixel buffer through the GPU blit pipeline into
// an offscreen target and saves the result.
//
// The buffer is either loaded from -input or generated as the hello-world
// frame. Buffer pixels map 1:1 onto viewport pixels, so the buffer appears
// as a centred patch of its own size. With -scaled the patch is enlarged
// 2x horizontally and 2.4x vertically.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/pixpipe"
	"github.com/gogpu/pixpipe/codec"
	"github.com/gogpu/pixpipe/gpu"

	_ "github.com/gogpu/wgpu/hal/allbackends"
)

func main() {
	var (
		backend   = flag.String("backend", "vulkan", "HAL backend: vulkan, metal, dx12, gl or software")
		input     = flag.String("input", "", "image to blit (default: hello-world frame)")
		output    = flag.String("output", "blit.png", "output file")
		width     = flag.Uint("viewport-width", 640, "viewport width")
		height    = flag.Uint("viewport-height", 400, "viewport height")
		scaled    = flag.Bool("scaled", false, "apply the 2.0 scale and 1.2 aspect adjustment")
		verbose   = flag.Bool("v", false, "enable debug logging")
		spirvOnly = flag.Bool("spirv", false, "skip the WGSL shader tier")
	)
	flag.Parse()

	if *verbose {
		pixpipe.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	pb, err := loadBuffer(*input)
	if err != nil {
		log.Fatalf("Failed to load buffer: %v", err)
	}

	backendType, err := gpu.ParseBackend(*backend)
	if err != nil {
		log.Fatal(err)
	}
	display, err := gpu.OpenDisplay(backendType, gpu.WithSurfaceFormat(gputypes.TextureFormatRGBA8Unorm))
	if err != nil {
		log.Fatalf("Failed to open display: %v", err)
	}
	defer display.Close()

	var opts []gpu.Option
	if *scaled {
		opts = append(opts, gpu.WithScaleAdjust(2.0, 1.2))
	}
	if *spirvOnly {
		opts = append(opts, gpu.WithShaderVariants(gpu.SPIRVVariant()))
	}
	pipeline, err := gpu.New(display, opts...)
	if err != nil {
		log.Fatalf("Failed to create pipeline: %v", err)
	}
	defer pipeline.Destroy()

	vw, vh := uint32(*width), uint32(*height) //nolint:gosec // flag values are small
	pipeline.Resize(vw, vh)

	target, err := gpu.NewOffscreen(display, vw, vh)
	if err != nil {
		log.Fatalf("Failed to create target: %v", err)
	}
	defer target.Destroy()

	if err := render(display, pipeline, target, pb); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	result, err := target.ReadPixels()
	if err != nil {
		log.Fatalf("Failed to read back: %v", err)
	}
	if err := codec.Save(*output, result); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Blit of %dx%d buffer saved to %s (%dx%d, adapter %q, shader %s)\n",
		pb.Width(), pb.Height(), *output, vw, vh, display.AdapterName(), pipeline.ShaderTier())
}

func loadBuffer(path string) (*pixpipe.PixBuf, error) {
	if path != "" {
		return codec.Load(path)
	}
	pb := pixpipe.WithDimensions(320, 200)
	pb.Fill(pixpipe.DarkGray)
	pb.Set(10, 10, pixpipe.Red)
	pb.Set(20, 30, pixpipe.Green)
	pb.Set(30, 20, pixpipe.Blue)
	return pb, nil
}

// render draws pb as the only content of one frame on target.
func render(display *gpu.Display, pipeline *gpu.Pipeline, target *gpu.Offscreen, pb *pixpipe.PixBuf) error {
	frame, err := display.BeginFrame(target.View(), gputypes.Color{A: 1})
	if err != nil {
		return err
	}
	if err := pipeline.Draw(display, frame, pb); err != nil {
		frame.Discard()
		return err
	}
	return frame.Finish()
}

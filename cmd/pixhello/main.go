// Command pixhello writes the pixpipe hello-world frame to an image file:
// a dark gray buffer with a red, a green and a blue pixel.
package main

import (
	"flag"
	"log"
	"math"

	"github.com/gogpu/pixpipe"
	"github.com/gogpu/pixpipe/codec"
)

func main() {
	var (
		width  = flag.Uint("width", 320, "buffer width")
		height = flag.Uint("height", 200, "buffer height")
		scale  = flag.Uint("scale", 1, "nearest-neighbour upscale factor for the saved image")
		output = flag.String("output", "test.png", "output file (.png, .bmp, .tiff or .webp)")
	)
	flag.Parse()

	if *width > math.MaxUint32 || *height > math.MaxUint32 || *scale > math.MaxUint32 {
		log.Fatal("width, height and scale must fit in 32 bits")
	}
	pb := helloFrame(uint32(*width), uint32(*height)) //nolint:gosec // range checked above

	out, err := codec.Upscale(pb, uint32(*scale)) //nolint:gosec // range checked above
	if err != nil {
		log.Fatalf("Failed to scale: %v", err)
	}
	if err := codec.Save(*output, out); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Frame saved to %s (%dx%d)\n", *output, out.Width(), out.Height())
}

func helloFrame(width, height uint32) *pixpipe.PixBuf {
	pb := pixpipe.WithDimensions(width, height)
	pb.Fill(pixpipe.DarkGray)
	pb.Set(10, 10, pixpipe.Red)
	pb.Set(20, 30, pixpipe.Green)
	pb.Set(30, 20, pixpipe.Blue)
	return pb
}

// Package pixpipe provides a software framebuffer: a fixed-size grid of
// 8-bit RGBA pixels that can be handed to image codecs or uploaded to the
// GPU as-is.
//
// # Quick Start
//
//	pb := pixpipe.WithDimensions(320, 200)
//	pb.Fill(pixpipe.DarkGray)
//	pb.Set(10, 10, pixpipe.Red)
//
//	raw := pb.AsRawBytes() // r,g,b,a per pixel, row-major, 320*200*4 bytes
//
// # Architecture
//
//   - pixpipe: Color, PixBuf, logging
//   - pixpipe/gpu: uploads a PixBuf as a texture and blits it to a surface
//     with a single textured quad (gogpu/wgpu HAL)
//   - pixpipe/codec: saves and loads a PixBuf through image codecs
//
// # Coordinates
//
// Origin (0,0) is the top-left pixel; left grows right, top grows down.
// Writes outside the buffer are ignored rather than reported.
package pixpipe

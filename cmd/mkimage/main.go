package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"tftkit/gfx"
	"tftkit/hal"
)

func main() {
	var (
		inPath  = flag.String("in", "", "Input file (PNG/JPEG/GIF/BMP/WebP for encode, asset for decode).")
		outPath = flag.String("out", "", "Output file (asset for encode, PNG for decode).")
		mode    = flag.String("mode", "encode", "encode|decode.")
		width   = flag.Int("w", 0, "Resize to this width (0 keeps the aspect ratio or the source size).")
		height  = flag.Int("h", 0, "Resize to this height (0 keeps the aspect ratio or the source size).")
	)
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		fatalf("usage: mkimage -in in.png -out out.img [-w 64] [-h 64]\n       mkimage -mode decode -in in.img -out out.png")
	}

	switch strings.ToLower(*mode) {
	case "encode":
		if err := encode(*inPath, *outPath, *width, *height); err != nil {
			fatalf("encode: %v", err)
		}
	case "decode":
		if err := decode(*inPath, *outPath); err != nil {
			fatalf("decode: %v", err)
		}
	default:
		fatalf("unknown mode: %s", *mode)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func encode(inPath, outPath string, w, h int) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	src, format, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	img := resize(src, w, h)
	b := img.Bounds()
	pix := make([]hal.Color, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pix = append(pix, hal.FromColor(img.At(x, y)))
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(out)
	if err := gfx.WriteImage(bw, b.Dx(), b.Dy(), pix); err != nil {
		_ = out.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	fmt.Printf("%s (%s) -> %s: %dx%d\n", inPath, format, outPath, b.Dx(), b.Dy())
	return nil
}

// resize scales src to w x h with Catmull-Rom. A zero side follows the
// aspect ratio; both zero keep the source.
func resize(src image.Image, w, h int) image.Image {
	sb := src.Bounds()
	if w <= 0 && h <= 0 {
		return src
	}
	if w <= 0 {
		w = max(sb.Dx()*h/sb.Dy(), 1)
	}
	if h <= 0 {
		h = max(sb.Dy()*w/sb.Dx(), 1)
	}
	if w == sb.Dx() && h == sb.Dy() {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, xdraw.Src, nil)
	return dst
}

func decode(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	img, err := gfx.LoadImage(0, 0, bufio.NewReader(in))
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img.RGBA()); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

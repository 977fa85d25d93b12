package render

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
)

// WritePPM writes img as a binary PPM (P6) image: a text header followed by one RGB byte
// triplet per pixel, row by row.
func WritePPM(w io.Writer, img image.Image) error {
	bb := img.Bounds()
	bw := bufio.NewWriter(w)
	_, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", bb.Dx(), bb.Dy())
	if err != nil {
		return err
	}
	for y := bb.Min.Y; y < bb.Max.Y; y++ {
		for x := bb.Min.X; x < bb.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			bw.Write([]byte{byte(r >> 8), byte(g >> 8), byte(b >> 8)})
		}
	}
	return bw.Flush()
}

// Encode writes img to w in format, which is one of "ppm", "png" or "bmp".
func Encode(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "ppm":
		return WritePPM(w, img)
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("unsupported image format %q", format)
}

// Package screenshot writes the CHIP-8 display as a PNG image.
package screenshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
	"golang.org/x/image/draw"
)

var (
	// Foreground is the color of lit pixels.
	Foreground = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	// Background is the color of unlit pixels.
	Background = color.RGBA{A: 0xFF}
)

// Image returns the display as an image with one image pixel per display
// pixel.
func Image(display chip8.Display) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, chip8.DisplayWidth, chip8.DisplayHeight))
	for y := range chip8.DisplayHeight {
		for x := range chip8.DisplayWidth {
			c := Background
			if display.Pixel(x, y) {
				c = Foreground
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Write encodes the display as PNG, every display pixel is scaled to a
// square of scale image pixels.
func Write(w io.Writer, display chip8.Display, scale int) error {
	if scale < 1 {
		return fmt.Errorf("invalid scale %d", scale)
	}

	src := Image(display)
	dst := src
	if scale > 1 {
		dst = image.NewRGBA(image.Rect(0, 0, chip8.DisplayWidth*scale, chip8.DisplayHeight*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	}

	if err := png.Encode(w, dst); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// Save writes the display as PNG file.
func Save(fileName string, display chip8.Display, scale int) error {
	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", fileName, err)
	}

	if err := Write(file, display, scale); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing file %s: %w", fileName, err)
	}
	return nil
}

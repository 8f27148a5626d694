package scaffold

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// sizes of the generated placeholder images
var (
	previewSize = image.Pt(640, 360)
	thumbSize   = image.Pt(256, 256)
)

// placeholderFill is the colour of generated placeholder images
var placeholderFill = color.NRGBA{R: 0x2b, G: 0x3a, B: 0x4a, A: 0xff}

// placeholderPNG encodes a solid image of the given size
func placeholderPNG(size image.Point) ([]byte, error) {
	img := image.NewNRGBA(image.Rectangle{Max: size})
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			img.SetNRGBA(x, y, placeholderFill)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode placeholder image: %w", err)
	}
	return buf.Bytes(), nil
}

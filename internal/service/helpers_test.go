package service

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// pngEncodeBlank writes a white PNG image without a QR code.
func pngEncodeBlank(w io.Writer) error {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return png.Encode(w, img)
}

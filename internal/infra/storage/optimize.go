package storage

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const (
	MaxImageWidth = 1600
	// MaxImagePixels bounds what is decoded in memory; larger images are
	// stored as uploaded.
	MaxImagePixels = 40_000_000
	webpQuality    = 80
)

// Optimize re-encodes JPEG and PNG uploads as WebP, downscaled to
// MaxImageWidth. Other files are returned untouched. A file that fails to
// decode, or whose header declares more than MaxImagePixels, is also kept
// as uploaded.
func Optimize(name string, data []byte, contentType string) (string, []byte, string) {
	if contentType != "image/jpeg" && contentType != "image/png" {
		return name, data, contentType
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return name, data, contentType
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return name, data, contentType
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return name, data, contentType
	}

	img := src
	if b := src.Bounds(); b.Dx() > MaxImageWidth {
		h := b.Dy() * MaxImageWidth / b.Dx()
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, MaxImageWidth, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return name, data, contentType
	}

	return strings.TrimSuffix(name, path.Ext(name)) + ".webp", buf.Bytes(), "image/webp"
}

// Package storage keeps encounter photos in an S3-compatible bucket. Every
// upload is normalised to a bounded WebP before it leaves the process.
package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/BruksfildServices01/consultapp/internal/httperr"
)

const (
	MaxUploadBytes = 10 << 20
	MaxSide        = 1600
	webpQuality    = 80
)

// Transcode decodes a jpeg, png or webp image, shrinks it so the longest
// side is at most maxSide and re-encodes it as lossy WebP.
func Transcode(r io.Reader, maxSide int) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	if len(raw) > MaxUploadBytes {
		return nil, httperr.ErrBusiness("photo_too_large")
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_photo")
	}

	img := fit(src, maxSide)

	var out bytes.Buffer
	if err := webp.Encode(&out, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return out.Bytes(), nil
}

func fit(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return src
	}

	if w >= h {
		h = h * maxSide / w
		w = maxSide
	} else {
		w = w * maxSide / h
		h = maxSide
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// Package imaging is the codec boundary: it decodes image bytes into the
// engine's pixel buffer and encodes processed buffers back out. It contains
// no filtering logic.
package imaging

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"noise-obliterator/internal/buffer"
)

// DefaultJPEGQuality matches the stdlib encoder default.
const DefaultJPEGQuality = 75

// Decode reads any registered image format into a pixel buffer and reports
// the detected format name. Opaque images become 3-channel RGB; anything
// with transparency becomes 4-channel RGBA.
func Decode(r io.Reader) (*buffer.Buffer, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("image decode failed: %w", err)
	}
	buf, err := FromImage(img)
	if err != nil {
		return nil, "", err
	}
	return buf, format, nil
}

// DecodeFile decodes the image at path.
func DecodeFile(path string) (*buffer.Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// FromImage converts a decoded image into a pixel buffer.
func FromImage(img image.Image) (*buffer.Buffer, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}

	if opaque(nrgba) {
		pix := make([]uint8, w*h*3)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				src := nrgba.PixOffset(x, y)
				dst := (y*w + x) * 3
				copy(pix[dst:dst+3], nrgba.Pix[src:src+3])
			}
		}
		return buffer.New(w, h, 3, pix)
	}

	pix := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		copy(pix[y*w*4:(y+1)*w*4], nrgba.Pix[y*nrgba.Stride:y*nrgba.Stride+w*4])
	}
	return buffer.New(w, h, 4, pix)
}

// ToImage converts a pixel buffer back into a stdlib image.
func ToImage(b *buffer.Buffer) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			src := b.Offset(x, y)
			dst := img.PixOffset(x, y)
			img.Pix[dst] = b.Pix[src]
			img.Pix[dst+1] = b.Pix[src+1]
			img.Pix[dst+2] = b.Pix[src+2]
			if b.Channels == 4 {
				img.Pix[dst+3] = b.Pix[src+3]
			} else {
				img.Pix[dst+3] = 255
			}
		}
	}
	return img
}

// Encode writes the buffer in the named format. JPEG quality below 1 falls
// back to DefaultJPEGQuality.
func Encode(w io.Writer, b *buffer.Buffer, format string, jpegQuality int) error {
	img := ToImage(b)
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		if jpegQuality < 1 {
			jpegQuality = DefaultJPEGQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case "png":
		return png.Encode(w, img)
	case "gif":
		return gif.Encode(w, img, nil)
	case "bmp":
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// EncodeFile writes the buffer to path, picking the format from the
// extension.
func EncodeFile(path string, b *buffer.Buffer, jpegQuality int) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return fmt.Errorf("cannot infer output format from %q", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := Encode(f, b, format, jpegQuality); err != nil {
		return err
	}
	return f.Close()
}

func opaque(img *image.NRGBA) bool {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		off := img.PixOffset(bounds.Min.X, y) + 3
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.Pix[off] != 255 {
				return false
			}
			off += 4
		}
	}
	return true
}

package pixel

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Sink persists packed RGBA frames
// pix is only valid for the duration of the call
type Sink interface {
	WriteFrame(frame, width, height int, pix []byte) error
}

// Format selects the image encoding of a FileSink
type Format string

const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// ErrUnknownFormat is returned for unsupported image formats
var ErrUnknownFormat = errors.New("unknown image format")

// ParseFormat accepts png, bmp, tiff and tif, case-insensitive
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Encode writes img in format f
func (f Format) Encode(w io.Writer, img image.Image) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// FileSink writes each frame to Dir/<Prefix><frame>.<format>
type FileSink struct {
	Dir    string
	Prefix string
	Format Format
}

// NewFileSink creates dir if needed
func NewFileSink(dir, prefix string, format Format) (*FileSink, error) {
	format, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &FileSink{Dir: dir, Prefix: prefix, Format: format}, nil
}

// Path returns the file a frame is written to
func (s *FileSink) Path(frame int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s%d.%s", s.Prefix, frame, s.Format))
}

func (s *FileSink) WriteFrame(frame, width, height int, pix []byte) (err error) {
	img := &image.RGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}

	f, err := os.Create(s.Path(frame))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return s.Format.Encode(f, img)
}

// MemorySink keeps copies of every frame
type MemorySink struct {
	Frames []*image.RGBA
}

func (s *MemorySink) WriteFrame(frame, width, height int, pix []byte) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pix)
	s.Frames = append(s.Frames, img)
	return nil
}

// Last returns the most recent frame or nil
func (s *MemorySink) Last() *image.RGBA {
	if len(s.Frames) == 0 {
		return nil
	}
	return s.Frames[len(s.Frames)-1]
}

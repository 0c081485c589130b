package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ImageKind is the raster image format recognised from a file's leading bytes.
type ImageKind int

const (
	NotAnImage ImageKind = iota
	JPEG
	PNG
	GIF
)

func (k ImageKind) String() string {
	switch k {
	case JPEG:
		return "jpeg"
	case PNG:
		return "png"
	case GIF:
		return "gif"
	default:
		return "none"
	}
}

// sniffLength is the number of bytes inspected. Shorter input is never an image.
const sniffLength = 8

var signatures = []struct {
	kind  ImageKind
	magic []byte
}{
	{JPEG, []byte{0xFF, 0xD8, 0xFF, 0xE0}},
	{PNG, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	{GIF, []byte("GIF87a")},
}

// Sniff classifies the content of r by its magic number. It reads the first eight bytes and
// rewinds r to the start afterwards, so the content can be decoded by the next reader. Errors
// are only returned for failing I/O.
func Sniff(r io.ReadSeeker) (ImageKind, error) {
	header := make([]byte, sniffLength)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return NotAnImage, fmt.Errorf("read file header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return NotAnImage, fmt.Errorf("rewind file: %w", err)
	}
	if n < sniffLength {
		return NotAnImage, nil
	}
	for _, s := range signatures {
		if bytes.HasPrefix(header, s.magic) {
			return s.kind, nil
		}
	}
	return NotAnImage, nil
}

// IsImage reports whether r starts like a recognised raster image.
func IsImage(r io.ReadSeeker) (bool, error) {
	kind, err := Sniff(r)
	return kind != NotAnImage, err
}

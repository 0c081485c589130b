package codec

import (
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"gitlab.com/dirk.krummacker/businesscard-service/internal/model"
)

// importers maps the lower-case file extensions that can be imported to their codec. Images are
// recognised by content, not by extension.
var importers = map[string]Codec{
	".xlsx": Spreadsheet{},
	".xls":  Spreadsheet{},
	".xml":  XML{},
}

// SupportedExtensions lists the extensions accepted besides QR code images.
func SupportedExtensions() []string {
	return slices.Sorted(maps.Keys(importers))
}

// Import decodes an uploaded file into new business cards. Images are scanned for a QR code,
// whatever their name. Everything else is dispatched strictly by the file name's extension.
//
// Errors wrap ErrUnsupportedFormat, ErrNoQRCode or ErrDecode, except for failing I/O.
func Import(filename string, r io.ReadSeeker) ([]model.BusinessCard, error) {
	kind, err := Sniff(r)
	if err != nil {
		return nil, err
	}

	var cards []model.BusinessCard
	if kind != NotAnImage {
		cards, err = QR{}.Decode(r)
		if err != nil {
			return nil, err
		}
		if len(cards) == 0 {
			return nil, fmt.Errorf("%w in %s image %q", ErrNoQRCode, kind, filename)
		}
	} else {
		ext := strings.ToLower(filepath.Ext(filename))
		c, ok := importers[ext]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
		}
		cards, err = c.Decode(r)
		if err != nil {
			return nil, err
		}
	}

	for i := range cards {
		cards[i].Id = 0
	}
	return cards, nil
}

// Package codec translates business cards to and from their external representations: xlsx
// spreadsheets, XML documents and QR code images.
//
// The codecs do not validate the cards they read. Field constraints are the business of the
// caller; a codec only fails on content it cannot interpret.
package codec

import (
	"errors"
	"io"

	"gitlab.com/dirk.krummacker/businesscard-service/internal/model"
)

var (
	// ErrUnsupportedFormat is returned for uploads that are neither an image nor a file with a
	// known extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoQRCode is returned for images in which no readable QR code was found.
	ErrNoQRCode = errors.New("no QR code found")

	// ErrDecode wraps every failure to interpret content that claims a supported format.
	ErrDecode = errors.New("could not decode file")

	// ErrValueTooLong is returned when a value does not fit into the target format.
	ErrValueTooLong = errors.New("value too long")
)

// Codec is implemented by every representation of a business card collection.
type Codec interface {
	// Encode renders the cards in their given order.
	Encode(cards []model.BusinessCard) ([]byte, error)

	// Decode reads all cards from r. Decoded cards are always new, their Id is 0.
	Decode(r io.Reader) ([]model.BusinessCard, error)
}

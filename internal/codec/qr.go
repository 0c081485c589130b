package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	qrcode "github.com/skip2/go-qrcode"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/model"
	"golang.org/x/image/draw"
)

// QRSize is the width and height in pixels of generated QR code images.
const QRSize = 300

const (
	// minScanSize is the shortest side an image is scaled up to before it is scanned.
	minScanSize = 200
	// quietZone is the white border in pixels put around every scanned image.
	quietZone = 16
	// maxScanSide caps the longer side of an upscaled image.
	maxScanSide = 4096
)

// maxImagePixels is the largest width x height an uploaded image may declare.
var maxImagePixels = 40_000_000

// qrPayload is the JSON carried by a QR code. The photo is never part of it. There is no
// version field: adding or removing fields makes older codes unreadable.
type qrPayload struct {
	Gender      string     `json:"gender"`
	Phone       string     `json:"phone"`
	Name        string     `json:"name"`
	Id          int64      `json:"id"`
	Email       *string    `json:"email"`
	Address     *string    `json:"address"`
	DateOfBirth model.Date `json:"dateOfBirth"`
}

// qrImport mirrors qrPayload with pointers, so that missing keys can be told apart from empty
// ones. A photo key is tolerated and ignored.
type qrImport struct {
	Gender      *string     `json:"gender"`
	Phone       *string     `json:"phone"`
	Name        *string     `json:"name"`
	Id          int64       `json:"id"`
	Email       *string     `json:"email"`
	Address     *string     `json:"address"`
	DateOfBirth *model.Date `json:"dateOfBirth"`
	PhotoBase64 *string     `json:"photoBase64"`
}

// QR renders a single card as a QR code PNG and reads cards back from QR code images.
type QR struct{}

var _ Codec = QR{}

// Encode renders exactly one card.
func (q QR) Encode(cards []model.BusinessCard) ([]byte, error) {
	if len(cards) != 1 {
		return nil, fmt.Errorf("a QR code holds exactly one business card, got %d", len(cards))
	}
	return q.EncodeCard(cards[0])
}

// EncodeCard returns a QRSize x QRSize PNG image with the card as JSON.
func (QR) EncodeCard(card model.BusinessCard) ([]byte, error) {
	payload, err := json.Marshal(qrPayload{
		Gender:      card.Gender,
		Phone:       card.Phone,
		Name:        card.Name,
		Id:          card.Id,
		Email:       card.Email,
		Address:     card.Address,
		DateOfBirth: card.DateOfBirth,
	})
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, QRSize)
	if err != nil {
		return nil, fmt.Errorf("render QR code: %w", err)
	}
	return png, nil
}

// Decode scans a JPEG, PNG or GIF image for a QR code. An image without a readable code
// yields no card and no error. A code whose text is not a business card is an error.
func (QR) Decode(r io.Reader) ([]model.BusinessCard, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: not a readable image: %v", ErrDecode, err)
	}
	if config.Width <= 0 || config.Height <= 0 || config.Width > maxImagePixels/config.Height {
		return nil, fmt.Errorf("%w: image of %dx%d pixels is too large", ErrDecode, config.Width, config.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: not a readable image: %v", ErrDecode, err)
	}
	bitmap, err := gozxing.NewBinaryBitmapFromImage(prepareForScan(img))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER:    true,
		gozxing.DecodeHintType_CHARACTER_SET: "UTF-8",
	}
	result, err := zxqrcode.NewQRCodeReader().Decode(bitmap, hints)
	if err != nil {
		return nil, nil
	}
	card, err := parseQRPayload(result.GetText())
	if err != nil {
		return nil, fmt.Errorf("%w: QR code content: %v", ErrDecode, err)
	}
	return []model.BusinessCard{card}, nil
}

func parseQRPayload(text string) (model.BusinessCard, error) {
	decoder := json.NewDecoder(strings.NewReader(text))
	decoder.DisallowUnknownFields()
	var p qrImport
	if err := decoder.Decode(&p); err != nil {
		return model.BusinessCard{}, err
	}
	if decoder.More() {
		return model.BusinessCard{}, errors.New("unexpected data after the JSON object")
	}
	switch {
	case p.Name == nil:
		return model.BusinessCard{}, errors.New("name is missing")
	case p.Gender == nil:
		return model.BusinessCard{}, errors.New("gender is missing")
	case p.Phone == nil:
		return model.BusinessCard{}, errors.New("phone is missing")
	case p.DateOfBirth == nil || p.DateOfBirth.IsZero():
		return model.BusinessCard{}, errors.New("dateOfBirth is missing")
	}
	return model.BusinessCard{
		Name:        *p.Name,
		Gender:      *p.Gender,
		Phone:       *p.Phone,
		DateOfBirth: *p.DateOfBirth,
		Email:       model.Optional(model.Value(p.Email)),
		Address:     model.Optional(model.Value(p.Address)),
	}, nil
}

// prepareForScan copies img onto a white canvas with a quiet zone around it, scaling small
// images up so that the detector finds enough pixels per module. The longer side is never
// scaled beyond maxScanSide.
func prepareForScan(img image.Image) image.Image {
	b := img.Bounds()
	scale := 1
	if side := min(b.Dx(), b.Dy()); side > 0 && side < minScanSize {
		scale = (minScanSize + side - 1) / side
	}
	if longest := max(b.Dx(), b.Dy()); longest*scale > maxScanSide {
		scale = max(1, maxScanSide/longest)
	}
	w, h := b.Dx()*scale, b.Dy()*scale
	canvas := image.NewRGBA(image.Rect(0, 0, w+2*quietZone, h+2*quietZone))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.NearestNeighbor.Scale(canvas, image.Rect(quietZone, quietZone, quietZone+w, quietZone+h), img, b, draw.Over, nil)
	return canvas
}

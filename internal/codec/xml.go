package codec

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"gitlab.com/dirk.krummacker/businesscard-service/internal/model"
	"golang.org/x/net/html/charset"
)

// xmlDocument is the exported document: a BusinessCards root with one BusinessCard per card.
// Every child element is always written, absent values as empty elements.
type xmlDocument struct {
	XMLName xml.Name  `xml:"BusinessCards"`
	Cards   []xmlCard `xml:"BusinessCard"`
}

type xmlCard struct {
	Id          int64  `xml:"Id"`
	Name        string `xml:"Name"`
	Gender      string `xml:"Gender"`
	Phone       string `xml:"Phone"`
	Address     string `xml:"Address"`
	Email       string `xml:"Email"`
	DateOfBirth string `xml:"DateOfBirth"`
	PhotoBase64 string `xml:"PhotoBase64"`
}

// xmlImportCard is what an import reads from a BusinessCard element. Id and PhotoBase64 are
// left out on purpose: imported cards are always new and come without a photo.
type xmlImportCard struct {
	Name        *string
	Gender      *string
	Phone       *string
	Address     *string
	Email       *string
	DateOfBirth *string
}

// XML reads and writes BusinessCards documents.
type XML struct{}

var _ Codec = XML{}

func (XML) Encode(cards []model.BusinessCard) ([]byte, error) {
	doc := xmlDocument{Cards: make([]xmlCard, 0, len(cards))}
	for _, card := range cards {
		doc.Cards = append(doc.Cards, xmlCard{
			Id:          card.Id,
			Name:        card.Name,
			Gender:      card.Gender,
			Phone:       card.Phone,
			Address:     model.Value(card.Address),
			Email:       model.Value(card.Email),
			DateOfBirth: card.DateOfBirth.String(),
			PhotoBase64: model.Value(card.PhotoBase64),
		})
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// Decode collects every BusinessCard element of the document, at any depth and in document
// order, including cards nested inside other cards. Only direct children of a BusinessCard
// are read as its fields. Missing name, gender and phone elements are read as empty strings.
// A missing or unparsable DateOfBirth fails the whole import. The declared encoding of the
// document is honoured.
func (XML) Decode(r io.Reader) ([]model.BusinessCard, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	var (
		found    []*xmlCardScan
		open     []*xmlCardScan
		depth    int
		seenRoot bool
	)
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed XML: %v", ErrDecode, err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			seenRoot = true
			if t.Name.Local == "BusinessCard" {
				scan := &xmlCardScan{depth: depth}
				found = append(found, scan)
				open = append(open, scan)
			} else if len(open) > 0 {
				open[len(open)-1].startField(t.Name.Local, depth)
			}
		case xml.CharData:
			for _, scan := range open {
				scan.text(t)
			}
		case xml.EndElement:
			if n := len(open); n > 0 && open[n-1].depth == depth {
				open = open[:n-1]
			}
			for _, scan := range open {
				scan.endField(depth)
			}
			depth--
		}
	}
	if !seenRoot {
		return nil, fmt.Errorf("%w: document has no root element", ErrDecode)
	}
	cards := make([]model.BusinessCard, 0, len(found))
	for i, scan := range found {
		card, err := scan.card.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: BusinessCard %d: %v", ErrDecode, i+1, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// xmlCardScan collects the fields of one open BusinessCard element while the tokens stream by.
type xmlCardScan struct {
	card       xmlImportCard
	depth      int
	field      *string
	fieldDepth int
}

// startField begins collecting text when name is a known field directly below the card. The
// first occurrence of a field wins.
func (s *xmlCardScan) startField(name string, depth int) {
	if depth != s.depth+1 || s.field != nil {
		return
	}
	target := s.card.field(name)
	if target == nil || *target != nil {
		return
	}
	*target = new(string)
	s.field = *target
	s.fieldDepth = depth
}

func (s *xmlCardScan) text(data xml.CharData) {
	if s.field != nil {
		*s.field += string(data)
	}
}

func (s *xmlCardScan) endField(depth int) {
	if s.field != nil && depth == s.fieldDepth {
		s.field = nil
	}
}

func (e *xmlImportCard) field(name string) **string {
	switch name {
	case "Name":
		return &e.Name
	case "Gender":
		return &e.Gender
	case "Phone":
		return &e.Phone
	case "Address":
		return &e.Address
	case "Email":
		return &e.Email
	case "DateOfBirth":
		return &e.DateOfBirth
	}
	return nil
}

func (e xmlImportCard) toModel() (model.BusinessCard, error) {
	if e.DateOfBirth == nil {
		return model.BusinessCard{}, errors.New("DateOfBirth element is missing")
	}
	dateOfBirth, err := model.ParseDate(*e.DateOfBirth)
	if err != nil {
		return model.BusinessCard{}, fmt.Errorf("DateOfBirth: %w", err)
	}
	return model.BusinessCard{
		Name:        model.Value(e.Name),
		Gender:      model.Value(e.Gender),
		Phone:       model.Value(e.Phone),
		Address:     model.Optional(model.Value(e.Address)),
		Email:       model.Optional(model.Value(e.Email)),
		DateOfBirth: dateOfBirth,
	}, nil
}

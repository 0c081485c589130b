package codec

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/model"
)

// SheetName is the name of the worksheet written by Spreadsheet.Encode.
const SheetName = "BusinessCards"

// spreadsheetHeader is the first row of every exported sheet. Columns are read back by position.
var spreadsheetHeader = []any{"Name", "Gender", "Date of Birth", "Email", "Phone", "Address", "Photo"}

const (
	colName = iota
	colGender
	colDateOfBirth
	colEmail
	colPhone
	colAddress
	colPhoto
)

// Spreadsheet reads and writes xlsx workbooks with a header row and one row per card.
type Spreadsheet struct{}

var _ Codec = Spreadsheet{}

// Encode writes the cards into a new workbook. A value exceeding the cell size limit of the
// format fails with ErrValueTooLong instead of being cut off.
func (Spreadsheet) Encode(cards []model.BusinessCard) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(SheetName, "A1", &spreadsheetHeader); err != nil {
		return nil, err
	}
	for i, card := range cards {
		row := []any{
			card.Name,
			card.Gender,
			card.DateOfBirth.String(),
			model.Value(card.Email),
			card.Phone,
			model.Value(card.Address),
			model.Value(card.PhotoBase64),
		}
		for col, v := range row {
			if s := v.(string); len([]rune(s)) > excelize.TotalCellChars {
				return nil, fmt.Errorf("%w: column %q of card %q has %d characters, at most %d fit into a cell",
					ErrValueTooLong, spreadsheetHeader[col], card.Name, len([]rune(s)), excelize.TotalCellChars)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(SheetName, "A", "G", 20); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads the first worksheet of an xlsx workbook. The first row is the header and is
// skipped. A row whose date of birth cannot be read fails the whole import.
func (Spreadsheet) Decode(r io.Reader) ([]model.BusinessCard, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: not a readable xlsx workbook: %v", ErrDecode, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no worksheet", ErrDecode)
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	cards := make([]model.BusinessCard, 0, max(len(rows)-1, 0))
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		dateOfBirth, err := parseDateCell(cell(row, colDateOfBirth))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: date of birth: %v", ErrDecode, i+1, err)
		}
		cards = append(cards, model.BusinessCard{
			Name:        cell(row, colName),
			Gender:      cell(row, colGender),
			DateOfBirth: dateOfBirth,
			Email:       model.Optional(cell(row, colEmail)),
			Phone:       cell(row, colPhone),
			Address:     model.Optional(cell(row, colAddress)),
			PhotoBase64: model.Optional(cell(row, colPhoto)),
		})
	}
	return cards, nil
}

// cell returns the value in the given column, rows are cut after their last non-empty cell.
func cell(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

// parseDateCell accepts dates written as text as well as cells holding an Excel serial date.
func parseDateCell(value string) (model.Date, error) {
	d, err := model.ParseDate(value)
	if err == nil {
		return d, nil
	}
	serial, convErr := strconv.ParseFloat(value, 64)
	if convErr != nil {
		return model.Date{}, err
	}
	t, convErr := excelize.ExcelDateToTime(serial, false)
	if convErr != nil {
		return model.Date{}, err
	}
	return model.DateOf(t), nil
}

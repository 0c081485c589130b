package service

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/codec"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/model"
)

// businessCardForm is a business card sent as form fields.
type businessCardForm struct {
	Name        string `form:"name"`
	Gender      string `form:"gender"`
	Phone       string `form:"phone"`
	DateOfBirth string `form:"dateOfBirth"`
	Email       string `form:"email"`
	Address     string `form:"address"`
	PhotoBase64 string `form:"photoBase64"`
}

// businessCard converts the form. An unreadable date is reported as a violation and left empty.
func (f businessCardForm) businessCard() (model.BusinessCard, *model.FieldError) {
	card := model.BusinessCard{
		Name:        f.Name,
		Gender:      f.Gender,
		Phone:       f.Phone,
		Email:       model.Optional(f.Email),
		Address:     model.Optional(f.Address),
		PhotoBase64: model.Optional(f.PhotoBase64),
	}
	if f.DateOfBirth == "" {
		return card, nil
	}
	date, err := model.ParseDate(f.DateOfBirth)
	if err != nil {
		return card, &model.FieldError{Field: "dateOfBirth", Message: "The dateOfBirth field is not a valid date."}
	}
	card.DateOfBirth = date
	return card, nil
}

// importBusinessCards stores all business cards found in the uploaded file. Nothing is stored if
// the file cannot be read completely.
func importBusinessCards(c *gin.Context, header *multipart.FileHeader) {
	ctx := c.Request.Context()
	log := requestLogger(c).With("file", header.Filename)
	log.Info(ctx, "file uploaded", "size", header.Size)

	file, err := header.Open()
	if err != nil {
		internalError(c, err)
		return
	}
	defer file.Close()

	imported, err := codec.Import(header.Filename, file)
	switch {
	case errors.Is(err, codec.ErrUnsupportedFormat):
		log.Warn(ctx, "invalid file type uploaded")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message": fmt.Sprintf("Only QR images and %s files are allowed.", fileFormats()),
		})
		return
	case errors.Is(err, codec.ErrNoQRCode):
		log.Warn(ctx, "no QR code found in uploaded image")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message": "Failed to decode QR code. Please ensure the image contains a valid QR code.",
		})
		return
	case errors.Is(err, codec.ErrDecode):
		log.Warn(ctx, "could not process uploaded file", "error", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message": fmt.Sprintf("An error occurred while processing the file: %v", err),
		})
		return
	case err != nil:
		internalError(c, err)
		return
	}

	created, err := cards.CreateAll(ctx, imported)
	if err != nil {
		internalError(c, err)
		return
	}
	log.Info(ctx, "business cards imported", "count", len(created))
	c.IndentedJSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d business cards imported successfully.", len(created)),
		"count":   len(created),
	})
}

// fileFormats lists the importable file extensions without dots, as in "xls, xlsx or xml".
func fileFormats() string {
	var names []string
	for _, ext := range codec.SupportedExtensions() {
		names = append(names, strings.TrimPrefix(ext, "."))
	}
	if len(names) < 2 {
		return strings.Join(names, "")
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

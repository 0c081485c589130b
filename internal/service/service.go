package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/codec"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/logging"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/model"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/store"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	xmlContentType  = "application/xml"
	pngContentType  = "image/png"
)

// cards is the store holding all business cards.
var cards store.Store

// logger is the service logger. Handlers use the request-scoped child from requestLogger.
var logger logging.Logger = logging.NewSlogLogger(slog.Default())

// SetupDatabaseWrapper creates the MySQL store on top of the specified sql database, which
// prepares all statements. The database argument can be a real database for production use or a
// mock database within unit tests.
func SetupDatabaseWrapper(sqlDB *sql.DB) error {
	s, err := store.NewMySQLStore(sqlDB)
	if err != nil {
		return err
	}
	cards = s
	return nil
}

// Shutdown closes the store set up by SetupDatabaseWrapper together with its database.
func Shutdown() error {
	if closer, ok := cards.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// SetLogger replaces the service logger.
func SetLogger(l logging.Logger) {
	logger = l
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
func SetupHttpRouter(requestLogging bool) *gin.Engine {
	var router *gin.Engine
	if requestLogging {
		router = gin.Default()
	} else {
		logger.Info(context.Background(), "Turning off HTTP request logging.")
		router = gin.New()
		router.Use(gin.Recovery())
	}
	router.Use(requestID())

	router.GET("/health", health)
	api := router.Group("/api/BusinessCards")
	api.POST("/AddBusinessCard", addBusinessCard)
	api.GET("/GetBusinessCard", getBusinessCard)
	api.GET("/GetBusinessCards", getBusinessCards)
	api.PUT("/UpdateBusinessCard", updateBusinessCard)
	api.DELETE("/DeleteBusinessCard", deleteBusinessCard)
	api.GET("/ExportToExcel", exportToExcel)
	api.GET("/ExportToXml", exportToXml)
	api.GET("/GenerateQr", generateQr)
	return router
}

// health answers as soon as the service accepts requests.
//
//	> curl http://localhost:8080/health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// addBusinessCard creates business cards. If the request carries a file in the form field
// 'fileUpload' then all cards in the file are imported and the other form fields are ignored.
// Otherwise a single card is created from the form fields, or from the JSON body if the request
// is sent as JSON, and returned with its newly assigned id.
//
// Example REST API calls:
//
//	> curl http://localhost:8080/api/BusinessCards/AddBusinessCard --form "fileUpload=@BusinessCards.xlsx"
//	> curl http://localhost:8080/api/BusinessCards/AddBusinessCard --form "name=Erika Mustermann" --form "gender=Female" --form "phone=+49 0815 4711" --form "dateOfBirth=1969-03-02"
func addBusinessCard(c *gin.Context) {
	ctx := c.Request.Context()
	log := requestLogger(c)
	log.Info(ctx, "AddBusinessCard called")

	if file, err := c.FormFile("fileUpload"); err == nil {
		importBusinessCards(c, file)
		return
	}

	var card model.BusinessCard
	var dateViolation *model.FieldError
	if c.ContentType() == binding.MIMEJSON {
		if err := c.ShouldBindJSON(&card); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
			return
		}
	} else {
		var form businessCardForm
		if err := c.ShouldBind(&form); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid form"})
			return
		}
		card, dateViolation = form.businessCard()
	}
	card.Id = 0
	card.Normalize()

	var violations []model.FieldError
	if dateViolation != nil {
		violations = append(violations, *dateViolation)
	}
	for _, v := range model.Validate(&card) {
		// An unreadable date is already reported.
		if dateViolation != nil && v.Field == dateViolation.Field {
			continue
		}
		violations = append(violations, v)
	}
	if len(violations) > 0 {
		log.Warn(ctx, "invalid business card", "violations", violations)
		abortWithViolations(c, violations)
		return
	}

	created, err := cards.Create(ctx, card)
	if err != nil {
		internalError(c, err)
		return
	}
	log.Info(ctx, "business card added", "id", created.Id, "name", created.Name)
	c.IndentedJSON(http.StatusCreated, created)
}

// getBusinessCard responds with the business card whose id matches the 'id' URL parameter.
//
//	> curl "http://localhost:8080/api/BusinessCards/GetBusinessCard?id=56"
func getBusinessCard(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	requestLogger(c).Info(ctx, "fetching business card", "id", id)

	card, err := cards.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		requestLogger(c).Warn(ctx, "business card not found", "id", id)
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "business card not found"})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, card)
}

// getBusinessCards responds with all business cards ordered by id.
//
//	> curl http://localhost:8080/api/BusinessCards/GetBusinessCards
func getBusinessCards(c *gin.Context) {
	ctx := c.Request.Context()
	requestLogger(c).Info(ctx, "fetching all business cards")

	all, err := cards.FindAll(ctx)
	if err != nil {
		internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, all)
}

// updateBusinessCard replaces all fields of the business card whose id matches the 'id' URL
// parameter with the JSON body. The id in the body must be the same as in the URL.
//
//	> curl "http://localhost:8080/api/BusinessCards/UpdateBusinessCard?id=56" --request "PUT" --header "Content-Type: application/json" --data '{"id": 56, "name": "Rudi Völler", "gender": "Male", "phone": "+49 1234567890", "dateOfBirth": "1960-04-13"}'
func updateBusinessCard(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	log := requestLogger(c)

	var card model.BusinessCard
	if err := c.ShouldBindJSON(&card); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	if card.Id != id {
		log.Warn(ctx, "business card id mismatch", "id", id, "bodyId", card.Id)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "id in body does not match id parameter"})
		return
	}
	card.Normalize()
	if violations := model.Validate(&card); violations != nil {
		log.Warn(ctx, "invalid business card", "id", id, "violations", violations)
		abortWithViolations(c, violations)
		return
	}

	log.Info(ctx, "updating business card", "id", id)
	updated, err := cards.Update(ctx, card)
	if errors.Is(err, store.ErrNotFound) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "business card not found"})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, updated)
}

// deleteBusinessCard deletes the business card whose id matches the 'id' URL parameter. Deleting
// a card that does not exist succeeds as well.
//
//	> curl "http://localhost:8080/api/BusinessCards/DeleteBusinessCard?id=56" --request "DELETE"
func deleteBusinessCard(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	requestLogger(c).Info(ctx, "deleting business card", "id", id)

	if err := cards.Delete(ctx, id); err != nil {
		internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// exportToExcel responds with all business cards as an xlsx download.
//
//	> curl http://localhost:8080/api/BusinessCards/ExportToExcel --output BusinessCards.xlsx
func exportToExcel(c *gin.Context) {
	export(c, codec.Spreadsheet{}, xlsxContentType, "BusinessCards.xlsx")
}

// exportToXml responds with all business cards as an XML download.
//
//	> curl http://localhost:8080/api/BusinessCards/ExportToXml --output BusinessCards.xml
func exportToXml(c *gin.Context) {
	export(c, codec.XML{}, xmlContentType, "BusinessCards.xml")
}

func export(c *gin.Context, format codec.Codec, contentType string, filename string) {
	ctx := c.Request.Context()
	all, err := cards.FindAll(ctx)
	if err != nil {
		internalError(c, err)
		return
	}
	content, err := format.Encode(all)
	if errors.Is(err, codec.ErrValueTooLong) {
		requestLogger(c).Warn(ctx, "export refused", "file", filename, "error", err)
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	requestLogger(c).Info(ctx, "business cards exported", "file", filename, "count", len(all))
	attachment(c, contentType, filename, content)
}

// generateQr responds with a QR code PNG of the business card whose id matches the 'id' URL
// parameter. The photo is not part of the QR code.
//
//	> curl "http://localhost:8080/api/BusinessCards/GenerateQr?id=56" --output card.png
func generateQr(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	requestLogger(c).Info(ctx, "generating QR code", "id", id)

	card, err := cards.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "business card not found"})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	png, err := codec.QR{}.EncodeCard(card)
	if err != nil {
		internalError(c, err)
		return
	}
	attachment(c, pngContentType, card.Name+"-Qr.png", png)
}

// parseID reads the 'id' URL parameter. A missing or malformed id is answered as not found.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return 0, false
	}
	return id, true
}

// attachment sends content as a file download.
func attachment(c *gin.Context, contentType string, filename string, content []byte) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, contentType, content)
}

func abortWithViolations(c *gin.Context, violations []model.FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"message": "validation failed",
		"errors":  violations,
	})
}

// internalError logs err and answers with a generic message. Details never leave the service.
func internalError(c *gin.Context, err error) {
	requestLogger(c).Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
}

package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/developia-II/catalog-backend/internal/core/domain"
	"github.com/developia-II/catalog-backend/internal/models"
	"github.com/developia-II/catalog-backend/internal/validation"
	"github.com/developia-II/catalog-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxMultipartMemory = 32 << 20

// formAllowance is the room left for text fields next to the largest set of
// image parts a single request can carry.
const formAllowance = 1 << 20

var errBadBody = domain.Invalid("body", "request body must be a JSON object or a form")

// BodyLimit is the largest write request accepted when each image part may
// be up to maxFileBytes.
func BodyLimit(maxFileBytes int64) int64 {
	return int64(models.ProductImages)*maxFileBytes + formAllowance
}

// limitBody caps how much of a request body later handlers can read.
func limitBody(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}

// bodyError keeps an exceeded body limit visible to respondError and reports
// every other decoding failure as a malformed body.
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return tooLarge
	}
	return errBadBody
}

// bindPayload reads a multipart form, a urlencoded form or a flat JSON
// object into a Payload. An empty body is an empty payload. JSON numbers and
// booleans become their string form; nested values are rejected on their key.
func bindPayload(c *gin.Context) (domain.Payload, error) {
	p := domain.Payload{Fields: domain.Fields{}, Files: map[string]domain.Upload{}}

	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			return p, bodyError(err)
		}
		for key, values := range form.Value {
			if len(values) > 0 {
				p.Fields[key] = values[0]
			}
		}
		for key, headers := range form.File {
			if len(headers) > 0 {
				p.Files[key] = fileUpload(headers[0])
			}
		}
		return p, nil
	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return p, bodyError(err)
		}
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				p.Fields[key] = values[0]
			}
		}
		return p, nil
	}

	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		return p, bodyError(err)
	}

	verr := domain.NewValidationError()
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			p.Fields[key] = v
		case float64:
			p.Fields[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			p.Fields[key] = strconv.FormatBool(v)
		case nil:
			p.Fields[key] = ""
		default:
			verr.Add(key, key+" must be a string")
		}
	}
	return p, verr.OrNil()
}

func fileUpload(fh *multipart.FileHeader) domain.Upload {
	return domain.Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func pathID(c *gin.Context) (primitive.ObjectID, error) {
	return validation.ParseID("id", c.Param("id"))
}

// queryID parses an optional id filter; absent means no filter.
func queryID(c *gin.Context, key string) (*primitive.ObjectID, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	id, err := validation.ParseID(key, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// respondError maps domain errors to status codes. Anything unclassified is
// logged and reported as an internal error.
func respondError(c *gin.Context, entity string, err error) {
	var (
		verr     *domain.ValidationError
		notFound *domain.NotFoundError
		conflict *domain.ConflictError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, utils.FieldErrorResponse(
			"request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes", []string{"body"}))
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, utils.FieldErrorResponse(verr.Error(), verr.Fields))
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, utils.ErrorResponse(notFound.Error()))
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, utils.ErrorResponse(conflict.Error()))
	default:
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"entity": entity,
			"error":  err.Error(),
		}).Error("catalog request failed")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("internal server error"))
	}
}

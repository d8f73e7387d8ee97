package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bigredeye/coursesapi/api"
	"github.com/bigredeye/coursesapi/internal/config"
	"github.com/bigredeye/coursesapi/internal/database"
)

type webService struct {
	server *server
	config *config.Config
	log    *zap.Logger
}

// requestError marks errors caused by the client input.
type requestError struct {
	err error
}

func (e *requestError) Error() string {
	return e.err.Error()
}

func (e *requestError) Unwrap() error {
	return e.err
}

func invalidRequest(err error) error {
	return &requestError{err}
}

func invalidRequestf(format string, args ...interface{}) error {
	return &requestError{errors.Errorf(format, args...)}
}

func (s webService) fail(c *gin.Context, err error) {
	var reqErr *requestError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &tooLarge):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, &api.ErrorResponse{
			Detail: "Request body is too large.",
		})
	case database.IsNotFound(err):
		c.AbortWithStatusJSON(http.StatusNotFound, &api.ErrorResponse{Detail: "Not found."})
	case errors.As(err, &reqErr), database.IsUnknownStudents(err), database.IsDuplicateKey(err):
		s.log.Info("Rejected request", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadRequest, &api.ErrorResponse{Detail: err.Error()})
	default:
		s.log.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, &api.ErrorResponse{
			Detail: "Internal server error.",
		})
	}
}

// itemID parses the :id route parameter. Ids that are not unsigned
// integers cannot match any record, so they are reported as not found.
func (s webService) itemID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, api.IDBitSize)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, &api.ErrorResponse{Detail: "Not found."})
		return 0, false
	}
	return uint(id), true
}

func queryID(c *gin.Context, key string) (*uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, api.IDBitSize)
	if err != nil {
		return nil, invalidRequestf("%s: Enter a whole number.", key)
	}
	res := uint(id)
	return &res, nil
}

func queryString(c *gin.Context, key string) *string {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	return &raw
}

func isFormRequest(c *gin.Context) bool {
	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		return true
	default:
		return false
	}
}

// checkName trims the name in place and rejects blank values.
func checkName(name *string, required bool) error {
	if name == nil {
		if required {
			return invalidRequestf("name: This field is required.")
		}
		return nil
	}
	*name = strings.TrimSpace(*name)
	if len(*name) == 0 {
		return invalidRequestf("name: This field may not be blank.")
	}
	return nil
}

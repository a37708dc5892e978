package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/pkg/response"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

// writeError maps service errors onto the response envelope. Unknown errors
// are logged with the request id and returned without detail.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var fe validation.FieldErrors
	switch {
	case errors.As(err, &fe):
		response.Error[any](c, http.StatusBadRequest, "validation failed", fe)
	case errors.Is(err, application.ErrDuplicateAccount):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, application.ErrTokenExpired):
		response.Error[any](c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, application.ErrInvalidToken):
		response.Error[any](c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, application.ErrUserNotFound), errors.Is(err, application.ErrTaskNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, application.ErrNoFieldsProvided):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("unhandled error")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func bindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
}

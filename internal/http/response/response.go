package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/noelvk/taskpad-backend/internal/logger"
	"github.com/noelvk/taskpad-backend/internal/pkg/apperror"
)

// Status — короткий флаг исхода в конверте ответа.
type Status string

const (
	StatusOK   Status = "1"
	StatusFail Status = "0"
)

// Envelope — единый конверт всех ответов API. Data сериализуется только
// когда непустая.
type Envelope struct {
	Status  Status      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON отправляет конверт с заданным HTTP статусом.
func JSON(c *gin.Context, httpStatus int, status Status, message string, data interface{}) {
	c.JSON(httpStatus, Envelope{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// OK отправляет успешный конверт.
func OK(c *gin.Context, httpStatus int, message string, data interface{}) {
	JSON(c, httpStatus, StatusOK, message, data)
}

// Fail отправляет конверт с флагом неуспеха.
func Fail(c *gin.Context, httpStatus int, message string) {
	JSON(c, httpStatus, StatusFail, message, nil)
}

// Error переводит ошибку в конверт. Типизированные ошибки сохраняют свой
// статус и сообщение; всё остальное сворачивается в общий ответ, а детали
// остаются только в логах.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Code == apperror.ErrCodeInternal {
			logInternal(c, err)
		}
		Fail(c, appErr.HTTPStatus, appErr.Message)
		return
	}

	logInternal(c, err)
	Fail(c, apperror.ErrInternal.HTTPStatus, apperror.ErrInternal.Message)
}

func logInternal(c *gin.Context, err error) {
	if logger.Log == nil {
		return
	}
	logger.Log.WithFields(logrus.Fields{
		"error":  err.Error(),
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}).Error("request failed")
}

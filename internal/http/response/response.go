// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON-ответов HTTP-обработчиков.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"

	"github.com/commacards/card-subscriptions/internal/models"
)

// Response описывает стандартную структуру JSON-ответа сервера.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает ответ с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует ответ на основе ошибок валидации.
// Нарушения объединяются через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Error(strings.Join(errsMsgs, ", "))
}

var lifecycleErrors = []error{
	models.ErrInvalidConfig,
	models.ErrUnknownPlan,
	models.ErrInvalidCycle,
	models.ErrInvalidTrialWindow,
	models.ErrInvalidTimestamp,
	models.ErrTrialsDisabled,
	models.ErrSubscriptionNotFound,
}

// Lifecycle возвращает HTTP-статус и короткое сообщение для ошибки сервиса жизненного цикла.
// Ошибки ввода — 422, выключенные пробные периоды — 409, отсутствие записи — 404, остальное — 500.
func Lifecycle(err error) (int, ErrorResponse) {
	status := http.StatusInternalServerError
	switch {
	case models.IsValidation(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrTrialsDisabled):
		status = http.StatusConflict
	case errors.Is(err, models.ErrSubscriptionNotFound):
		status = http.StatusNotFound
	}

	for _, known := range lifecycleErrors {
		if errors.Is(err, known) {
			return status, Error(known.Error())
		}
	}
	return status, Error("internal error")
}

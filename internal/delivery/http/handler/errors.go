package handler

import (
	"errors"

	"skillbridge/internal/ai"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/pkg/response"
	"skillbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

var errNotConfigured = errors.New("not configured")

// mapUsecaseError turns use case and AI provider errors into AppErrors.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	if aerr, ok := ai.AsError(err); ok {
		return middleware.NewAppError(aerr.HTTPStatus(), aerr.Message(), fiber.Map{"kind": aerr.Kind}, err)
	}

	var vErr *usecase.ValidationError
	var nfErr *usecase.NotFoundError
	switch {
	case errors.As(err, &vErr):
		return middleware.NewAppError(fiber.StatusBadRequest, vErr.Message, nil, err)
	case errors.As(err, &nfErr):
		return middleware.NewAppError(fiber.StatusNotFound, capitalize(nfErr.Error()), nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, response.MessageNotFound, nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, response.MessageForbidden, nil, err)
	case errors.Is(err, usecase.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, response.MessageConflict, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func badRequest(message string, cause error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, message, nil, cause)
}

func unauthorized() error {
	return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

package response

import "github.com/gofiber/fiber/v3"

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

const (
	MessageBadRequest          = "Bad request"
	MessageUnauthorized        = "Unauthorized"
	MessageForbidden           = "Forbidden"
	MessageNotFound            = "Not found"
	MessageConflict            = "Conflict"
	MessageTooManyRequests     = "Too many requests"
	MessageInternalServerError = "Internal server error"
	MessageServiceUnavailable  = "Service unavailable"
	MessageError               = "Error"
)

func Success(c fiber.Ctx, status int, data any) error {
	return c.Status(normalizeStatus(status)).JSON(Envelope{Success: true, Data: data})
}

func SuccessMessage(c fiber.Ctx, status int, message string, data any) error {
	return c.Status(normalizeStatus(status)).JSON(Envelope{Success: true, Data: data, Message: message})
}

// Error writes a failure envelope. errLabel defaults to the status text;
// message is omitted when it repeats the label.
func Error(c fiber.Ctx, status int, errLabel, message string, data any) error {
	st := normalizeStatus(status)
	if errLabel == "" {
		errLabel = LabelForStatus(st)
	}
	if message == errLabel {
		message = ""
	}
	return c.Status(st).JSON(Envelope{Success: false, Data: data, Error: errLabel, Message: message})
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func LabelForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return MessageBadRequest
	case fiber.StatusUnauthorized:
		return MessageUnauthorized
	case fiber.StatusForbidden:
		return MessageForbidden
	case fiber.StatusNotFound:
		return MessageNotFound
	case fiber.StatusConflict:
		return MessageConflict
	case fiber.StatusTooManyRequests:
		return MessageTooManyRequests
	case fiber.StatusServiceUnavailable:
		return MessageServiceUnavailable
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return MessageError
	}
}

package httperr

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Error is a failure the client is allowed to see.
type Error struct {
	Status  int
	Message string
	Fields  FieldErrors
}

func (e *Error) Error() string {
	return e.Message
}

type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func Validation(fields FieldErrors) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: "Validation error", Fields: fields}
}

func BadRequest(message string) *Error   { return New(fiber.StatusBadRequest, message) }
func Unauthorized(message string) *Error { return New(fiber.StatusUnauthorized, message) }
func Forbidden(message string) *Error    { return New(fiber.StatusForbidden, message) }
func NotFound(message string) *Error     { return New(fiber.StatusNotFound, message) }
func Conflict(message string) *Error     { return New(fiber.StatusConflict, message) }

// StatusOf returns the HTTP status an error maps to.
func StatusOf(err error) int {
	var he *Error
	if errors.As(err, &he) {
		return he.Status
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// Public returns the message that may be shown to a client.
func Public(err error) string {
	var he *Error
	if errors.As(err, &he) {
		return he.Message
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return "Internal server error"
}

// Respond writes err using the standard envelope. Unknown errors are logged
// and reported as a generic 500.
func Respond(c *fiber.Ctx, err error) error {
	status := StatusOf(err)
	body := fiber.Map{
		"success": false,
		"message": Public(err),
	}

	var he *Error
	if errors.As(err, &he) && len(he.Fields) > 0 {
		body["errors"] = he.Fields
	}
	if status >= fiber.StatusInternalServerError {
		log.Printf("[%s %s] %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(body)
}

// Handler is installed as the fiber ErrorHandler.
func Handler(c *fiber.Ctx, err error) error {
	return Respond(c, err)
}

package app

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/newline-cinema/booking-server/internal/protocol"
	appvalidator "github.com/newline-cinema/booking-server/internal/validator"
)

const serverErrorMessage = "The server encountered a problem and could not process your request"

func (app *Application) serverErrorResponse(logger *slog.Logger, action string, err error) protocol.StatusResponse {
	logger.Error(err.Error(), "action", action)

	return protocol.Error(serverErrorMessage)
}

func (app *Application) failedValidationResponse(err error) protocol.StatusResponse {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return protocol.Error("invalid request")
	}

	messages := make([]string, len(validationErrors))
	for i, fieldErr := range validationErrors {
		messages[i] = fmt.Sprintf("%s %s", fieldErr.Field(), appvalidator.ValidationMessage(fieldErr))
	}

	return protocol.Error("validation failed: " + strings.Join(messages, "; "))
}

func notFoundResponse(movieID int) protocol.StatusResponse {
	return protocol.Error(fmt.Sprintf("movie with id %d not found", movieID))
}

func malformedRequestResponse(message string) protocol.StatusResponse {
	return protocol.Error("malformed request: " + message)
}

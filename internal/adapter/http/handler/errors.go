package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
)

const (
	internalErrorMessage = "the server encountered a problem and could not process your request"
	notFoundMessage      = "the requested resource could not be found"
)

func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"error": message}

	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// failedValidationResponse returns 400 with field-level messages.
func failedValidationResponse(w http.ResponseWriter, errors map[string]string) {
	errorResponse(w, http.StatusBadRequest, errors)
}

func badRequestResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusBadRequest, message)
}

func notFoundResponse(w http.ResponseWriter) {
	errorResponse(w, http.StatusNotFound, notFoundMessage)
}

func internalErrorResponse(w http.ResponseWriter) {
	errorResponse(w, http.StatusInternalServerError, internalErrorMessage)
}

// serviceErrorResponse maps a service error to its status. Server-side details are not exposed.
func serviceErrorResponse(w http.ResponseWriter, err error) {
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		failedValidationResponse(w, verr.Fields)
		return
	}

	switch GetCode(err) {
	case http.StatusBadRequest:
		badRequestResponse(w, err.Error())
	case http.StatusNotFound:
		notFoundResponse(w)
	default:
		internalErrorResponse(w)
	}
}

// logServiceError logs server failures as errors and client mistakes at debug level.
func logServiceError(ctx context.Context, l logger.Logger, err error, msg string) {
	if GetCode(err) == http.StatusInternalServerError {
		l.Error(wrap.ErrorCtx(ctx, err), msg, err)
		return
	}
	l.Debug(ctx, msg, "error", err.Error())
}

package proxy

import (
	"context"
	"github.com/denismitr/imageserver/internal/media"
	"github.com/denismitr/imageserver/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"net/http"
)

var ErrMissingFilename = errors.New("no image file specified")

// Reason is the machine readable failure code sent to clients
type Reason string

const (
	MissingFilename   Reason = "MissingFilename"
	MalformedFilename Reason = "MalformedFilename"
	InvalidIdentifier Reason = "InvalidIdentifier"
	NotFound          Reason = "NotFound"
	AccessDenied      Reason = "AccessDenied"
	IOFailure         Reason = "IOFailure"
	RouteNotFound     Reason = "RouteNotFound"
	MethodNotAllowed  Reason = "MethodNotAllowed"
	Canceled          Reason = "Canceled"
	InternalError     Reason = "InternalError"
)

// StatusClientClosedRequest is reported when the client went away before the file was opened
const StatusClientClosedRequest = 499

type errorResponse struct {
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

// errorToResponse never puts the error text itself into the body,
// storage errors carry filesystem paths
func errorToResponse(err error) (int, errorResponse) {
	switch {
	case errors.Is(err, ErrMissingFilename):
		return http.StatusBadRequest, errorResponse{Reason: MissingFilename, Message: "No image file specified."}
	case errors.Is(err, media.ErrMalformedFilename):
		return http.StatusBadRequest, errorResponse{Reason: MalformedFilename, Message: "Malformed image filename."}
	case errors.Is(err, media.ErrInvalidIdentifier):
		return http.StatusBadRequest, errorResponse{Reason: InvalidIdentifier, Message: "Image filename is not a valid UUID."}
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, errorResponse{Reason: NotFound, Message: "Image not found."}
	case errors.Is(err, storage.ErrAccessDenied):
		return http.StatusForbidden, errorResponse{Reason: AccessDenied, Message: "Image access denied."}
	case errors.Is(err, storage.ErrIOFailure):
		return http.StatusInternalServerError, errorResponse{Reason: IOFailure, Message: "Image could not be read."}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusClientClosedRequest, errorResponse{Reason: Canceled, Message: "Request canceled."}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound:
			return he.Code, errorResponse{Reason: RouteNotFound, Message: "Route not found."}
		case http.StatusMethodNotAllowed:
			return he.Code, errorResponse{Reason: MethodNotAllowed, Message: "Method not allowed."}
		}
	}

	return http.StatusInternalServerError, errorResponse{Reason: InternalError, Message: "Internal server error."}
}

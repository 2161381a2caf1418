package server

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/at-ishikawa/wordbridge/internal/dictionary"
)

var errInternal = errors.New("internal error")

// toConnectError maps the dictionary error taxonomy onto connect codes.
// Unexpected errors are logged and replaced, so storage details never reach the caller.
func toConnectError(logger *slog.Logger, procedure string, err error) error {
	var validationErr *dictionary.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return invalidArgument(validationErr)
	case errors.Is(err, dictionary.ErrEmptyContribution):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, dictionary.ErrUnknownLanguage):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, dictionary.ErrDuplicateLanguage):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, dictionary.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, dictionary.ErrUnauthorized):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, dictionary.ErrForbidden):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	logger.Error("request failed", "procedure", procedure, "error", err)
	return connect.NewError(connect.CodeInternal, errInternal)
}

func invalidArgument(validationErr *dictionary.ValidationError) *connect.Error {
	connectErr := connect.NewError(connect.CodeInvalidArgument, validationErr)
	var fieldViolations []*errdetails.BadRequest_FieldViolation
	for _, v := range validationErr.Violations {
		fieldViolations = append(fieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       v.Field,
			Description: v.Description,
		})
	}
	if detail, detailErr := connect.NewErrorDetail(&errdetails.BadRequest{
		FieldViolations: fieldViolations,
	}); detailErr == nil {
		connectErr.AddDetail(detail)
	}
	return connectErr
}

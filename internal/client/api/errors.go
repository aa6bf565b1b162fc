package api

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/salarygate/internal/common"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrNotLoggedIn = errors.New("not logged in")
)

// RemoteError is a failure reported by the server. Message is the text the
// server meant for the operator; errors.Is matches the taxonomy sentinel.
type RemoteError struct {
	Code    codes.Code
	Message string
	kind    error
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) Unwrap() error { return e.kind }

var kindByCode = map[codes.Code]error{
	codes.InvalidArgument:    common.ErrValidation,
	codes.Unauthenticated:    common.ErrUnauthorized,
	codes.PermissionDenied:   common.ErrForbidden,
	codes.NotFound:           common.ErrNotFound,
	codes.FailedPrecondition: common.ErrInvariant,
	codes.Internal:           common.ErrStorage,
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	}
	return &RemoteError{Code: st.Code(), Message: st.Message(), kind: kindByCode[st.Code()]}
}

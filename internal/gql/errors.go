package gql

import (
	"errors"

	"library_api/internal/service"
)

// Extension codes reported under errors[].extensions.code.
const (
	codeBadUserInput    = "BAD_USER_INPUT"
	codeUnauthenticated = "UNAUTHENTICATED"
	codeNotFound        = "NOT_FOUND"
	codeInternal        = "INTERNAL_SERVER_ERROR"
)

// resolverError is picked up by graphql-go, which copies Extensions into
// the response error.
type resolverError struct {
	msg   string
	code  string
	extra map[string]any
	cause error
}

func (e *resolverError) Error() string { return e.msg }
func (e *resolverError) Unwrap() error { return e.cause }

func (e *resolverError) Extensions() map[string]any {
	ext := map[string]any{"code": e.code}
	for k, v := range e.extra {
		ext[k] = v
	}
	return ext
}

// toGraphQLError maps service errors to coded GraphQL errors. Unknown
// errors are masked.
func toGraphQLError(err error) error {
	if err == nil {
		return nil
	}

	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return &resolverError{
			msg:   ve.Error(),
			code:  codeBadUserInput,
			extra: map[string]any{"invalidArgs": map[string]any{ve.Field: ve.Value}},
			cause: err,
		}
	}

	var ue *service.UnauthorizedError
	if errors.As(err, &ue) {
		return &resolverError{msg: "not authenticated", code: codeUnauthenticated, cause: err}
	}

	if errors.Is(err, service.ErrInvalidCredentials) {
		return &resolverError{msg: "wrong credentials", code: codeBadUserInput, cause: err}
	}

	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		return &resolverError{msg: nf.Error(), code: codeNotFound, cause: err}
	}

	return &resolverError{msg: "internal server error", code: codeInternal, cause: err}
}

func isNotFound(err error) bool {
	var nf *service.NotFoundError
	return errors.As(err, &nf)
}

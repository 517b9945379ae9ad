// Package gql serves the library schema through graph-gophers/graphql-go.
package gql

import (
	"context"

	"library_api/internal/logger"
	"library_api/internal/service"

	graphql "github.com/graph-gophers/graphql-go"
)

// panicLogger routes resolver panics to zap instead of the stdlib logger.
type panicLogger struct {
	log *logger.Logger
}

func (l panicLogger) LogPanic(_ context.Context, value interface{}) {
	l.log.Errorw("graphql_panic", "value", value)
}

// NewSchema parses the SDL and binds it to the root resolver. It panics on
// a schema/resolver mismatch, which is a programming error.
func NewSchema(svc *service.Service, log *logger.Logger) *graphql.Schema {
	if log == nil {
		log = logger.Nop()
	}
	return graphql.MustParseSchema(Schema, NewResolver(svc, log),
		graphql.Logger(panicLogger{log: log}),
		graphql.MaxDepth(12),
	)
}

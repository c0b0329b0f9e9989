package model

import (
	"context"

	"github.com/google/uuid"
)

// Principal is the authenticated caller resolved from an access token.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   Role
	Status Status
}

// ContextManager stores request-scoped caller data in a context.
type ContextManager interface {
	SetPrincipalToContext(ctx context.Context, principal Principal) context.Context
	GetPrincipalFromContext(ctx context.Context) (Principal, bool)
	SetLanguageToContext(ctx context.Context, lang string) context.Context
	GetLanguageFromContext(ctx context.Context) string
}

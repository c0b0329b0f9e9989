package context

import (
	"context"

	"github.com/dtroode/gatekeeper-server/internal/model"
)

type principalKey struct{}

type languageKey struct{}

// Manager keeps the authenticated caller and the negotiated language in
// request contexts.
type Manager struct {
	defaultLanguage string
}

// NewManager creates a Manager that reports defaultLanguage when no language was negotiated.
func NewManager(defaultLanguage string) *Manager {
	if defaultLanguage == "" {
		defaultLanguage = "en"
	}
	return &Manager{defaultLanguage: defaultLanguage}
}

func (m *Manager) SetPrincipalToContext(ctx context.Context, principal model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipalFromContext reports false for anonymous requests.
func (m *Manager) GetPrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(model.Principal)
	return p, ok
}

func (m *Manager) SetLanguageToContext(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, languageKey{}, lang)
}

func (m *Manager) GetLanguageFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(languageKey{}).(string); ok && lang != "" {
		return lang
	}
	return m.defaultLanguage
}

package middleware

import (
	"context"

	"golang.org/x/text/language"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/dtroode/gatekeeper-server/internal/model"
)

// Language negotiates the response language from accept-language metadata.
type Language struct {
	contextManager model.ContextManager
	matcher        language.Matcher
	names          []string
}

// NewLanguage creates the middleware. The first supported language is the fallback.
func NewLanguage(contextManager model.ContextManager, supported ...string) *Language {
	if len(supported) == 0 {
		supported = []string{"en"}
	}
	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tags = append(tags, language.Make(s))
	}
	return &Language{
		contextManager: contextManager,
		matcher:        language.NewMatcher(tags),
		names:          supported,
	}
}

// Detect returns the supported language closest to the accept-language header.
func (l *Language) Detect(header string) string {
	if header == "" {
		return l.names[0]
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return l.names[0]
	}
	_, idx, confidence := l.matcher.Match(tags...)
	if confidence == language.No {
		return l.names[0]
	}
	return l.names[idx]
}

func (l *Language) HandleGRPC(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get("accept-language"); len(values) > 0 {
			header = values[0]
		}
	}
	return handler(l.contextManager.SetLanguageToContext(ctx, l.Detect(header)), req)
}

package mail

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
)

//go:embed templates
var templateFS embed.FS

const fallbackLanguage = "en"

// ErrUnknownTemplate is returned for a template name no language provides.
var ErrUnknownTemplate = errors.New("unknown email template")

// Renderer renders email bodies from the embedded template set. Every body
// is wrapped in the shared layout.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	layout, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list email templates: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		lang := path.Base(path.Dir(file))
		name := strings.TrimSuffix(path.Base(file), ".html")

		t, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone email layout: %w", err)
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse email template %s: %w", file, err)
		}
		r.templates[lang+"/"+name] = t
	}

	return r, nil
}

// Render executes name in lang, falling back to English.
func (r *Renderer) Render(name, lang string, data map[string]any) (string, error) {
	t, ok := r.templates[lang+"/"+name]
	if !ok {
		t, ok = r.templates[fallbackLanguage+"/"+name]
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("failed to render email template %s: %w", name, err)
	}
	return buf.String(), nil
}

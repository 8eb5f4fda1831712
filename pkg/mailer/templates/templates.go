package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Template names. Each expects <name>.subject.tmpl, <name>.text.tmpl and
// <name>.html.tmpl in FS.
const (
	Welcome = "welcome"
)

var (
	mu     sync.Mutex
	parsed = map[string]func(*bytes.Buffer, any) error{}
)

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	if s, ok := value.(string); ok {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.IsZero() {
		return fallback
	}
	return value
}

func funcs() map[string]any {
	return map[string]any{
		"now":     func() time.Time { return time.Now().UTC() },
		"year":    func() int { return time.Now().UTC().Year() },
		"upper":   strings.ToUpper,
		"default": defaultFn,
	}
}

// load parses filename once; .html files go through html/template for escaping.
func load(filename string) (func(*bytes.Buffer, any) error, error) {
	mu.Lock()
	defer mu.Unlock()
	if fn, ok := parsed[filename]; ok {
		return fn, nil
	}

	var fn func(*bytes.Buffer, any) error
	if strings.HasSuffix(filename, ".html.tmpl") {
		tpl, err := htmpl.New(filename).Funcs(funcs()).ParseFS(FS, filename)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", filename, err)
		}
		fn = func(buf *bytes.Buffer, data any) error { return tpl.Execute(buf, data) }
	} else {
		tpl, err := texttpl.New(filename).Funcs(funcs()).ParseFS(FS, filename)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", filename, err)
		}
		fn = func(buf *bytes.Buffer, data any) error { return tpl.Execute(buf, data) }
	}
	parsed[filename] = fn
	return fn, nil
}

func renderFile(filename string, data any) (string, error) {
	exec, err := load(filename)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := exec(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Render renders subject, text and html for the given template name.
func Render(name string, data any) (subject, text, html string, err error) {
	parts := [3]string{}
	for i, suffix := range []string{".subject.tmpl", ".text.tmpl", ".html.tmpl"} {
		if parts[i], err = renderFile(name+suffix, data); err != nil {
			return "", "", "", err
		}
	}
	return parts[0], parts[1], parts[2], nil
}

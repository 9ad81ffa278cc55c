package util

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// promptFuncs are the helpers available inside prompt templates.
var promptFuncs = template.FuncMap{
	"default": defaultValue,
	"upper":   strings.ToUpper,
	"lower":   strings.ToLower,
	"title":   titleCase,
	"join":    joinAny,
}

// RenderTemplate expands {{...}} markers in text using Go's text/template.
// text/template (not html/template) on purpose: rendered output feeds model
// prompts, which must never be HTML-escaped.
// This lives in internal to avoid committing to public API stability prematurely.
func RenderTemplate(text string, state map[string]any) (string, error) {
	// Fast path for prompts without template markers.
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := template.New("prompt").Funcs(promptFuncs).Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, state); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// defaultValue substitutes fallback when val is nil or the empty string.
func defaultValue(fallback, val any) any {
	if val == nil || val == "" {
		return fallback
	}

	return val
}

// titleCase uppercases the first byte and lowercases the remainder.
func titleCase(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// joinAny renders items with %v and joins them with sep.
func joinAny(sep string, items []any) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%v", item)
	}

	return strings.Join(parts, sep)
}

package web

import (
	"html/template"
	"strings"
)

// FuncMap - функции, доступные в шаблонах.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"imageURL": ImageURL,
	}
}

// ImageURL помечает адрес изображения как безопасный для атрибута src.
// Разрешены только http(s) и data:image/ адреса, остальное заменяется на "#".
func ImageURL(raw string) template.URL {
	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "http://"),
		strings.HasPrefix(lower, "data:image/"):
		return template.URL(raw)
	default:
		return template.URL("#")
	}
}

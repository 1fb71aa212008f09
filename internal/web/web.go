package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html static/*
var content embed.FS

// FS возвращает встроенные шаблоны и статику.
func FS() fs.FS {
	return content
}

// NotFoundPage возвращает содержимое страницы 404.
func NotFoundPage(fsys fs.FS) ([]byte, error) {
	return fs.ReadFile(fsys, "static/404.html")
}

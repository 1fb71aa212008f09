package web

import (
	"strings"
	"unicode/utf16"
)

// DownloadFilename строит имя файла для скачивания стикера.
// Каждый символ вне [a-zA-Z0-9] заменяется на "_" (по одному на UTF-16 единицу),
// результат приводится к нижнему регистру и получает расширение .png.
func DownloadFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name) + len(".png"))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			n := utf16.RuneLen(r)
			if n < 1 {
				n = 1
			}
			b.WriteString(strings.Repeat("_", n))
		}
	}
	b.WriteString(".png")
	return b.String()
}

package models

// Sticker - именованное изображение в галерее.
// Имена JSON-полей являются частью формата хранения и не должны меняться.
type Sticker struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// StickerSource описывает, откуда пришел новый стикер.
type StickerSource string

const (
	StickerSourceGenerated StickerSource = "generated"
	StickerSourceUploaded  StickerSource = "uploaded"
)

// CloneStickers возвращает независимую копию среза.
// Пустой результат всегда не-nil, чтобы сериализоваться как [] а не null.
func CloneStickers(src []Sticker) []Sticker {
	out := make([]Sticker, len(src))
	copy(out, src)
	return out
}

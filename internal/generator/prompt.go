package generator

import (
	"strings"

	"stickerverse/shared/models"
)

// Style - художественный стиль стикера.
type Style string

const (
	StyleCartoon   Style = "Cartoon"
	StyleRealistic Style = "Realistic"
	StyleAbstract  Style = "Abstract"
	StylePixelArt  Style = "Pixel Art"
	StyleAnime     Style = "Anime"
)

// DefaultStyle - стиль, выбранный в форме по умолчанию.
const DefaultStyle = StyleCartoon

// Mood - настроение стикера.
type Mood string

const (
	MoodHappy     Mood = "Happy"
	MoodSad       Mood = "Sad"
	MoodExcited   Mood = "Excited"
	MoodAngry     Mood = "Angry"
	MoodSurprised Mood = "Surprised"
)

// DefaultMood - настроение, выбранное в форме по умолчанию.
const DefaultMood = MoodHappy

// Styles возвращает все стили в порядке отображения.
func Styles() []Style {
	return []Style{StyleCartoon, StyleRealistic, StyleAbstract, StylePixelArt, StyleAnime}
}

// Moods возвращает все настроения в порядке отображения.
func Moods() []Mood {
	return []Mood{MoodHappy, MoodSad, MoodExcited, MoodAngry, MoodSurprised}
}

// ParseStyle принимает только значения из Styles. Пустая строка дает DefaultStyle.
func ParseStyle(s string) (Style, error) {
	if s == "" {
		return DefaultStyle, nil
	}
	for _, style := range Styles() {
		if string(style) == s {
			return style, nil
		}
	}
	return "", models.NewValidationError("style", "Please choose a valid style.")
}

// ParseMood принимает только значения из Moods. Пустая строка дает DefaultMood.
func ParseMood(s string) (Mood, error) {
	if s == "" {
		return DefaultMood, nil
	}
	for _, mood := range Moods() {
		if string(mood) == s {
			return mood, nil
		}
	}
	return "", models.NewValidationError("mood", "Please choose a valid mood.")
}

// BuildPrompt собирает текст запроса к сервису генерации.
// Описание подставляется как есть, без обрезки пробелов.
func BuildPrompt(description string, style Style, mood Mood) string {
	return "A high-quality, circular sticker with a distinct white border. " +
		"The sticker should be in a " + strings.ToLower(string(style)) + " style, featuring " + description + ". " +
		"The mood should be clearly " + strings.ToLower(string(mood)) + ". " +
		"The background should be transparent or simple to easily isolate the main subject."
}

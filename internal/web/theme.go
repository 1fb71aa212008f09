package web

// Theme - фон страницы в зависимости от времени суток.
type Theme struct {
	Name     string
	Gradient string // Классы Tailwind для градиента
}

var (
	ThemeMorning   = Theme{Name: "morning", Gradient: "from-sky-300 via-blue-400 to-yellow-200"}
	ThemeAfternoon = Theme{Name: "afternoon", Gradient: "from-blue-400 to-sky-500"}
	ThemeEvening   = Theme{Name: "evening", Gradient: "from-indigo-700 via-purple-800 to-orange-600"}
	ThemeNight     = Theme{Name: "night", Gradient: "from-gray-900 via-indigo-900 to-black"}
)

// ThemeForHour выбирает тему по часу локального времени (0-23).
func ThemeForHour(hour int) Theme {
	switch {
	case hour >= 5 && hour < 12:
		return ThemeMorning
	case hour >= 12 && hour < 18:
		return ThemeAfternoon
	case hour >= 18 && hour < 21:
		return ThemeEvening
	default:
		return ThemeNight
	}
}

package models

// ErrorResponse - стандартная структура для ответа об ошибке в формате JSON.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse - ответ эндпоинта /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Stickers int    `json:"stickers"`
}

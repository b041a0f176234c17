package dto

// PageResponse metadatos de paginación que acompañan a los listados.
// Total solo se llena cuando el repositorio lo calcula.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo estándar de error de la API. Code es un identificador
// estable para los clientes (VALIDATION, NOT_FOUND, INSUFFICIENT_STOCK, ...);
// Message es texto para humanos.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

package dto

// ErrorResponse respuesta de error uniforme para la capa HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListResponse listado dentro del alcance. Enabled=false indica que la consulta quedó
// deshabilitada porque el alcance está incompleto (sin error).
type ListResponse struct {
	Items   any  `json:"items"`
	Enabled bool `json:"enabled"`
	Count   int  `json:"count"`
}

// RedirectResponse destino al que debe navegar el cliente.
type RedirectResponse struct {
	Redirect string `json:"redirect"`
}

// PageResponse respuesta de una página protegida o pública del portal.
type PageResponse struct {
	Portal string        `json:"portal"`
	Page   string        `json:"page"`
	User   *UserResponse `json:"user,omitempty"`
}

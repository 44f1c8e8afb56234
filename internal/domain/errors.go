package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrUpstream           = errors.New("la API de combustible no respondió correctamente")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrLoginInProgress    = errors.New("ya hay un inicio de sesión en curso")
	ErrUseAdminPanel      = errors.New("los SuperAdmin deben ingresar por el panel de administración")
	ErrUseTenantPortal    = errors.New("este usuario debe ingresar por el portal de su empresa")
	ErrNoSession          = errors.New("no hay sesión activa")
	ErrScopeUnresolvable  = errors.New("no se pudo resolver el alcance de datos")
	ErrScopeDisabled      = errors.New("consulta deshabilitada: alcance incompleto")
	ErrOutOfScope         = errors.New("el recurso está fuera del alcance del usuario")
)

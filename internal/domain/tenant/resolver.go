// Package tenant resuelve el tenant activo a partir del host de la petición.
package tenant

import (
	"net"
	"strings"
)

// Resolve deriva el tenant del hostname con el patrón {subdominio}.{appDomain}.
// localhost y 127.0.0.1 usan defaultTenant, igual que un primer label vacío,
// igual al propio appDomain o igual a "localhost".
// La comparación no distingue mayúsculas.
func Resolve(hostname, appDomain, defaultTenant string) string {
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	if hostname == "localhost" || hostname == "127.0.0.1" {
		return defaultTenant
	}
	label := hostname
	if i := strings.IndexByte(hostname, '.'); i >= 0 {
		label = hostname[:i]
	}
	if label == "" || label == strings.ToLower(appDomain) || label == "localhost" {
		return defaultTenant
	}
	return label
}

// FromHost es Resolve sobre un valor de cabecera Host, que puede traer puerto.
func FromHost(host, appDomain, defaultTenant string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return Resolve(host, appDomain, defaultTenant)
}

// Package normalize aísla el casing variable de la API de combustible: todo payload
// entrante pasa por acá y el resto del sistema solo ve claves canónicas en camelCase.
// Ninguna función del paquete falla ni entra en pánico con entradas malformadas.
package normalize

import "sort"

// envelopeKeys propiedades bajo las que la API suele envolver el resultado real.
var envelopeKeys = []string{"result", "data", "Result", "Data"}

// NormalizeKeys recorre slices y mapas renombrando claves conocidas a su forma canónica.
// Las claves sin mapeo se conservan tal cual; el resto de los valores pasa sin cambios.
// Si una clave canónica ya está presente, gana sobre sus variantes.
func NormalizeKeys(data any) any {
	switch v := data.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = NormalizeKeys(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeMap(item)
		}
		return out
	case map[string]any:
		return normalizeMap(v)
	default:
		return data
	}
}

func normalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	var mapped []string
	for k, val := range m {
		if _, ok := keyMap[k]; ok {
			mapped = append(mapped, k)
			continue
		}
		out[k] = NormalizeKeys(val)
	}
	sort.Strings(mapped)
	for _, k := range mapped {
		target := keyMap[k]
		if _, exists := out[target]; exists {
			continue
		}
		out[target] = NormalizeKeys(m[k])
	}
	return out
}

// NormalizeArrayResponse acepta un array o un objeto que lo envuelve bajo result/data.
// Devuelve siempre un slice, vacío cuando la forma no se reconoce.
func NormalizeArrayResponse(data any) []any {
	switch v := data.(type) {
	case []any, []map[string]any:
		return NormalizeKeys(v).([]any)
	case map[string]any:
		for _, k := range envelopeKeys {
			switch inner := v[k].(type) {
			case []any, []map[string]any:
				return NormalizeKeys(inner).([]any)
			}
		}
	}
	return []any{}
}

// NormalizeObjectResponse desenvuelve un objeto único. nil para entradas vacías o que no
// son objetos.
func NormalizeObjectResponse(data any) map[string]any {
	m, ok := data.(map[string]any)
	if !ok || m == nil {
		return nil
	}
	for _, k := range envelopeKeys {
		if inner, ok := m[k].(map[string]any); ok && inner != nil {
			return normalizeMap(inner)
		}
	}
	return normalizeMap(m)
}

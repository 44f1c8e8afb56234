package normalize

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
)

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	timeType    = reflect.TypeOf(time.Time{})
	roleType    = reflect.TypeOf(entity.Role(""))
)

// timeLayouts formatos de fecha que devuelve la API (con y sin zona horaria).
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Decode normaliza data y la vuelca en out (puntero a struct con tags json).
// Usa decodificación débil: "5" y 5 terminan en el mismo int64.
func Decode(data any, out any) error {
	normalized := NormalizeKeys(data)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			decimalHook,
			timeHook,
			roleHook,
		),
	})
	if err != nil {
		return fmt.Errorf("normalize: decoder: %w", err)
	}
	if err := dec.Decode(normalized); err != nil {
		return fmt.Errorf("normalize: decode: %w", err)
	}
	return nil
}

// DecodeList decodifica cada elemento de una respuesta de lista. Los elementos que no
// decodifican se omiten y se cuentan en skipped.
func DecodeList[T any](items []any) (out []T, skipped int) {
	out = make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := Decode(item, &v); err != nil {
			skipped++
			continue
		}
		out = append(out, v)
	}
	return out, skipped
}

func decimalHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		if strings.TrimSpace(v) == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	}
	return data, nil
}

func timeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return data, nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("fecha no reconocida: %q", s)
}

// roleHook acepta "Admin", "Operador", etc. y deja el rol en su forma canónica.
func roleHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != roleType {
		return data, nil
	}
	var r entity.Role
	switch v := data.(type) {
	case string:
		_ = r.UnmarshalText([]byte(v))
	case entity.Role:
		_ = r.UnmarshalText([]byte(v))
	default:
		return data, nil
	}
	return r, nil
}

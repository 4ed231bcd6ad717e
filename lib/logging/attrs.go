package logging

import (
	"fmt"
	"log/slog"
)

// Error returns a slog attribute for errors.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// CDSService returns a slog attribute for CDS service endpoint URLs.
func CDSService(url string) slog.Attr {
	return slog.String("cds_service", url)
}

// Workflow returns a slog attribute for workflow identifiers.
func Workflow(id string) slog.Attr {
	return slog.String("workflow", id)
}

// TypeOf returns a slog attribute with the type name of the given value.
func TypeOf(key string, v any) slog.Attr {
	return slog.String(key, fmt.Sprintf("%T", v))
}

// Component returns a slog attribute for a component type.
func Component(v any) slog.Attr {
	return TypeOf("component", v)
}

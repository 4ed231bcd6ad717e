// Package to converts between values and pointers, mainly for the optional
// fields of FHIR resource structs.
package to

// EmptyString dereferences s, treating nil as the empty string.
func EmptyString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

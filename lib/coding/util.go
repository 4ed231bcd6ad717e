// Package coding holds the terminology systems used in synthetic clinical
// data, with helpers for building and comparing FHIR codings.
package coding

import (
	"github.com/healthforge/cdssandbox/lib/to"
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"
)

func New(system string, code string, display string) fhir.Coding {
	coding := fhir.Coding{
		System: to.Ptr(system),
		Code:   to.Ptr(code),
	}
	if display != "" {
		coding.Display = to.Ptr(display)
	}
	return coding
}

// Concept wraps a single coding in a CodeableConcept. The display, when
// present, doubles as the concept text.
func Concept(coding fhir.Coding) fhir.CodeableConcept {
	concept := fhir.CodeableConcept{
		Coding: []fhir.Coding{coding},
	}
	if coding.Display != nil {
		concept.Text = coding.Display
	}
	return concept
}

func EqualsCode(coding fhir.Coding, system string, value string) bool {
	return coding.System != nil && *coding.System == system &&
		coding.Code != nil && *coding.Code == value
}

package workflow

import (
	"fmt"
	"strings"
)

// Workflow is a clinical-context tag that drives data generation and the shape
// of the resulting CDS Hooks request. The values match the hook names defined
// by the CDS Hooks specification, plus the documentation workflows.
type Workflow string

const (
	PatientView        Workflow = "patient-view"
	OrderSelect        Workflow = "order-select"
	OrderSign          Workflow = "order-sign"
	EncounterDischarge Workflow = "encounter-discharge"
	SignNoteInpatient  Workflow = "sign-note-inpatient"
	SignNoteOutpatient Workflow = "sign-note-outpatient"
)

// All returns every known workflow, in a stable order.
func All() []Workflow {
	return []Workflow{
		PatientView,
		OrderSelect,
		OrderSign,
		EncounterDischarge,
		SignNoteInpatient,
		SignNoteOutpatient,
	}
}

func (w Workflow) String() string {
	return string(w)
}

// Parse resolves a workflow identifier to a known Workflow.
// Unknown identifiers yield an error that lists the valid options.
func Parse(id string) (Workflow, error) {
	for _, w := range All() {
		if string(w) == id {
			return w, nil
		}
	}
	options := make([]string, 0, len(All()))
	for _, w := range All() {
		options = append(options, string(w))
	}
	return "", fmt.Errorf("invalid workflow %q: please select from [%s]", id, strings.Join(options, ", "))
}

// UseCaseType identifies a configured clinical scenario category. A use case
// owns a strategy and governs which request types are valid for it.
type UseCaseType string

const (
	// UseCaseTypeCDS is clinical decision support (CDS Hooks).
	UseCaseTypeCDS UseCaseType = "cds"
	// UseCaseTypeClinDoc is clinical documentation (NoteReader-style).
	UseCaseTypeClinDoc UseCaseType = "clindoc"
)

// Valid reports whether the use-case type is one of the known categories.
func (t UseCaseType) Valid() bool {
	switch t {
	case UseCaseTypeCDS, UseCaseTypeClinDoc:
		return true
	}
	return false
}

// UseCaseType returns the use-case category the workflow belongs to.
func (w Workflow) UseCaseType() UseCaseType {
	switch w {
	case SignNoteInpatient, SignNoteOutpatient:
		return UseCaseTypeClinDoc
	default:
		return UseCaseTypeCDS
	}
}

// Package usecase provides the configured clinical scenarios the sandbox can
// run. A use case owns the strategy that shapes its requests and the data
// generators that feed it.
package usecase

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/healthforge/cdssandbox/cdshooks"
	"github.com/healthforge/cdssandbox/datagen"
	"github.com/healthforge/cdssandbox/ehr"
	"github.com/healthforge/cdssandbox/workflow"
)

var _ ehr.UseCase = (*ClinicalDecisionSupport)(nil)

// ClinicalDecisionSupport is the CDS Hooks use case.
type ClinicalDecisionSupport struct {
	generators []ehr.WorkflowSetter
	fhirServer string
}

type CDSOption func(*ClinicalDecisionSupport)

// WithDataGenerator registers a data generator whose workflow context the
// client builder will configure. May be given multiple times.
func WithDataGenerator(generator ehr.WorkflowSetter) CDSOption {
	return func(u *ClinicalDecisionSupport) {
		u.generators = append(u.generators, generator)
	}
}

// WithFHIRServer advertises the given FHIR server URL in constructed requests.
func WithFHIRServer(url string) CDSOption {
	return func(u *ClinicalDecisionSupport) {
		u.fhirServer = url
	}
}

func NewClinicalDecisionSupport(opts ...CDSOption) *ClinicalDecisionSupport {
	useCase := &ClinicalDecisionSupport{}
	for _, opt := range opts {
		opt(useCase)
	}
	return useCase
}

func (u *ClinicalDecisionSupport) Type() workflow.UseCaseType {
	return workflow.UseCaseTypeCDS
}

func (u *ClinicalDecisionSupport) Strategy() ehr.Strategy {
	return cdsStrategy{fhirServer: u.fhirServer}
}

func (u *ClinicalDecisionSupport) DataGenerators() []ehr.WorkflowSetter {
	return u.generators
}

// cdsStrategy turns generated CDS input into a CDS Hooks request.
type cdsStrategy struct {
	fhirServer string
}

func (s cdsStrategy) ConstructRequest(data any, wf workflow.Workflow) (*cdshooks.Request, error) {
	if wf.UseCaseType() != workflow.UseCaseTypeCDS {
		return nil, fmt.Errorf("workflow %s is not valid for clinical decision support", wf)
	}
	input, ok := data.(*datagen.CDSInput)
	if !ok {
		return nil, fmt.Errorf("expected *datagen.CDSInput, got %T", data)
	}
	if input.Context.PatientID == "" {
		return nil, fmt.Errorf("generated data has no patient ID")
	}
	return &cdshooks.Request{
		Hook:         wf.String(),
		HookInstance: uuid.NewString(),
		FHIRServer:   s.fhirServer,
		Context:      input.Context,
		Prefetch:     input.Prefetch,
	}, nil
}

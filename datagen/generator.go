// Package datagen produces synthetic clinical data for sandbox requests.
//
// A Generator is bound to a workflow and produces a CDSInput per call: the
// hook context identifiers plus a prefetch of FHIR resources shaped for that
// workflow. Resources are synthesized locally, or seeded from a live FHIR
// server when one is configured.
package datagen

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/url"
	"time"

	fhirclient "github.com/SanteonNL/go-fhir-client"
	"github.com/google/uuid"
	"github.com/healthforge/cdssandbox/cdshooks"
	"github.com/healthforge/cdssandbox/lib/coding"
	"github.com/healthforge/cdssandbox/lib/fhirutil"
	"github.com/healthforge/cdssandbox/lib/to"
	"github.com/healthforge/cdssandbox/workflow"
	"github.com/rs/zerolog/log"
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"
)

// CDSInput is the raw generated data a strategy turns into a request: the
// hook context plus the prefetched FHIR resources.
type CDSInput struct {
	Context  cdshooks.Context
	Prefetch map[string]json.RawMessage
}

// FHIRSearcher is the subset of the FHIR client the generator consumes.
type FHIRSearcher interface {
	SearchWithContext(ctx context.Context, resourceType string, query url.Values, target any, opts ...fhirclient.Option) error
}

// Generator produces synthetic CDS input data for a configured workflow.
type Generator struct {
	workflow   workflow.Workflow
	fhirClient FHIRSearcher
	rnd        *rand.Rand
}

type Option func(*Generator)

// WithFHIRClient makes the generator seed its prefetch with a patient fetched
// from a live FHIR server instead of a synthesized one.
func WithFHIRClient(client FHIRSearcher) Option {
	return func(g *Generator) {
		g.fhirClient = client
	}
}

// WithSeed fixes the random source, for reproducible output.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rnd = rand.New(rand.NewSource(seed))
	}
}

func New(opts ...Option) *Generator {
	g := &Generator{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetWorkflow sets the active workflow context. Only workflows belonging to
// the CDS category are supported by this generator.
func (g *Generator) SetWorkflow(wf workflow.Workflow) error {
	if wf.UseCaseType() != workflow.UseCaseTypeCDS {
		return fmt.Errorf("workflow %s is not supported by the CDS data generator", wf)
	}
	g.workflow = wf
	return nil
}

// Workflow returns the active workflow context.
func (g *Generator) Workflow() workflow.Workflow {
	return g.workflow
}

// Generate produces one CDSInput for the active workflow.
func (g *Generator) Generate(ctx context.Context) (*CDSInput, error) {
	if g.workflow == "" {
		return nil, fmt.Errorf("no workflow configured for data generator")
	}

	patient, err := g.patient(ctx)
	if err != nil {
		return nil, err
	}

	input := &CDSInput{
		Context: cdshooks.Context{
			UserID:    "Practitioner/" + uuid.NewString(),
			PatientID: to.EmptyString(patient.Id),
		},
		Prefetch: map[string]json.RawMessage{},
	}

	patientJSON, err := json.Marshal(patient)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthetic patient: %w", err)
	}
	input.Prefetch["patient"] = patientJSON

	switch g.workflow {
	case workflow.PatientView:
		// Patient prefetch only.
	case workflow.OrderSelect, workflow.OrderSign, workflow.EncounterDischarge:
		encounter := g.encounter(patient)
		input.Context.EncounterID = to.EmptyString(encounter.Id)
		bundle, err := fhirutil.CollectionBundle(encounter, g.condition(patient, encounter))
		if err != nil {
			return nil, err
		}
		bundleJSON, err := json.Marshal(bundle)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal prefetch bundle: %w", err)
		}
		input.Prefetch["encounter"] = bundleJSON
	default:
		return nil, fmt.Errorf("workflow %s is not supported by the CDS data generator", g.workflow)
	}

	return input, nil
}

func (g *Generator) patient(ctx context.Context) (*fhir.Patient, error) {
	if g.fhirClient != nil {
		patient, err := g.fetchPatient(ctx)
		if err == nil {
			return patient, nil
		}
		log.Warn().Err(err).Msg("Could not fetch patient from FHIR server, synthesizing one instead")
	}
	return g.syntheticPatient(), nil
}

// fetchPatient reads one Patient from the configured FHIR server.
func (g *Generator) fetchPatient(ctx context.Context) (*fhir.Patient, error) {
	var bundle fhir.Bundle
	query := url.Values{"_count": []string{"1"}}
	if err := g.fhirClient.SearchWithContext(ctx, "Patient", query, &bundle); err != nil {
		return nil, fmt.Errorf("patient search failed: %w", err)
	}
	patient, err := fhirutil.FirstResource[fhir.Patient](&bundle)
	if err != nil {
		return nil, err
	}
	if patient.Id == nil || *patient.Id == "" {
		patient.Id = to.Ptr(uuid.NewString())
	}
	return patient, nil
}

func (g *Generator) syntheticPatient() *fhir.Patient {
	given := givenNames[g.rnd.Intn(len(givenNames))]
	family := familyNames[g.rnd.Intn(len(familyNames))]
	gender := genders[g.rnd.Intn(len(genders))]
	birthYear := 1930 + g.rnd.Intn(80)

	return &fhir.Patient{
		Id:     to.Ptr(uuid.NewString()),
		Active: to.Ptr(true),
		Name: []fhir.HumanName{
			{
				Family: to.Ptr(family),
				Given:  []string{given},
			},
		},
		Gender:    to.Ptr(gender),
		BirthDate: to.Ptr(fmt.Sprintf("%d-%02d-%02d", birthYear, 1+g.rnd.Intn(12), 1+g.rnd.Intn(28))),
	}
}

func (g *Generator) encounter(patient *fhir.Patient) *fhir.Encounter {
	status := fhir.EncounterStatusInProgress
	if g.workflow == workflow.EncounterDischarge {
		status = fhir.EncounterStatusFinished
	}
	return &fhir.Encounter{
		Id:     to.Ptr(uuid.NewString()),
		Status: status,
		Class:  coding.New(coding.ActCodeSystem, "AMB", "ambulatory"),
		Subject: &fhir.Reference{
			Reference: to.Ptr("Patient/" + to.EmptyString(patient.Id)),
			Type:      to.Ptr("Patient"),
		},
	}
}

func (g *Generator) condition(patient *fhir.Patient, encounter *fhir.Encounter) *fhir.Condition {
	code := conditionCodes[g.rnd.Intn(len(conditionCodes))]
	return &fhir.Condition{
		Id:             to.Ptr(uuid.NewString()),
		ClinicalStatus: to.Ptr(coding.Concept(coding.New(coding.ConditionClinicalSystem, "active", ""))),
		Code:           to.Ptr(coding.Concept(coding.New(coding.SNOMEDCTSystem, code.code, code.display))),
		Subject: fhir.Reference{
			Reference: to.Ptr("Patient/" + to.EmptyString(patient.Id)),
			Type:      to.Ptr("Patient"),
		},
		Encounter: &fhir.Reference{
			Reference: to.Ptr("Encounter/" + to.EmptyString(encounter.Id)),
			Type:      to.Ptr("Encounter"),
		},
	}
}

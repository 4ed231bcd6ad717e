// Package sandbox exposes an internal endpoint that drives synthetic EHR
// request runs against a CDS service: it generates clinical data, queues
// CDS Hooks requests for a configured workflow and dispatches them, then
// reports on the outcome of the run.
package sandbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/healthforge/cdssandbox/component"
	"github.com/healthforge/cdssandbox/component/tracing"
	"github.com/healthforge/cdssandbox/datagen"
	"github.com/healthforge/cdssandbox/ehr"
	"github.com/healthforge/cdssandbox/lib/fhirutil"
	"github.com/healthforge/cdssandbox/lib/logging"
	"github.com/healthforge/cdssandbox/usecase"
	"github.com/healthforge/cdssandbox/workflow"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var _ component.Lifecycle = (*Component)(nil)

type Config struct {
	// ServiceURL is the CDS service endpoint requests are dispatched to.
	ServiceURL string `koanf:"serviceurl"`
	Workflow   string `koanf:"workflow"`
	Count      int    `koanf:"count"`
	// FHIRBaseURL enables live mode: patient data is fetched from this FHIR
	// server instead of being synthesized.
	FHIRBaseURL string `koanf:"fhirbaseurl"`
}

func DefaultConfig() Config {
	return Config{
		ServiceURL: "http://localhost:8080/cds-services/sandbox",
		Workflow:   workflow.PatientView.String(),
		Count:      1,
	}
}

type Component struct {
	config Config
}

// RunReport summarizes a single sandbox run. A request counts as failed when
// the dispatcher recorded an empty placeholder response for it.
type RunReport struct {
	ServiceURL string           `json:"serviceUrl"`
	Workflow   string           `json:"workflow"`
	Total      int              `json:"total"`
	Succeeded  int              `json:"succeeded"`
	Failed     int              `json:"failed"`
	Responses  []map[string]any `json:"responses"`
}

func New(config Config) (*Component, error) {
	if _, err := workflow.Parse(config.Workflow); err != nil {
		return nil, errors.Wrap(err, "invalid sandbox configuration")
	}
	if config.Count < 1 {
		return nil, errors.Errorf("invalid sandbox configuration: count must be at least 1, got %d", config.Count)
	}
	return &Component{config: config}, nil
}

func (c *Component) Start() error {
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	return nil
}

func (c *Component) RegisterHttpHandlers(_ *http.ServeMux, internalMux *http.ServeMux) {
	internalMux.HandleFunc("POST /sandbox/run", func(w http.ResponseWriter, r *http.Request) {
		report, err := c.run(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("Sandbox run failed")
			http.Error(w, "sandbox run failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(report)
	})
}

// run builds a fresh EHR client each time, so consecutive runs never share
// queue state, and dispatches the queued requests to the configured service.
func (c *Component) run(ctx context.Context) (RunReport, error) {
	generatorOpts := []datagen.Option{}
	if c.config.FHIRBaseURL != "" {
		fhirClient, err := fhirutil.NewClient(c.config.FHIRBaseURL, tracing.NewHTTPClient())
		if err != nil {
			return RunReport{}, errors.Wrap(err, "failed to create FHIR client")
		}
		generatorOpts = append(generatorOpts, datagen.WithFHIRClient(fhirClient))
	}
	generator := datagen.New(generatorOpts...)

	useCase := usecase.NewClinicalDecisionSupport(
		usecase.WithDataGenerator(generator),
		usecase.WithFHIRServer(c.config.FHIRBaseURL),
	)
	client, err := ehr.Build(ctx, useCase,
		func(ctx context.Context) (any, error) {
			return generator.Generate(ctx)
		},
		c.config.Workflow,
		ehr.WithCount(c.config.Count),
		ehr.WithTransportWrapper(tracing.WrapTransport),
	)
	if err != nil {
		return RunReport{}, errors.Wrap(err, "failed to build EHR client")
	}

	responses := client.SendRequest(ctx, c.config.ServiceURL)
	report := RunReport{
		ServiceURL: c.config.ServiceURL,
		Workflow:   c.config.Workflow,
		Total:      len(responses),
		Responses:  responses,
	}
	for _, response := range responses {
		if len(response) == 0 {
			report.Failed++
		} else {
			report.Succeeded++
		}
	}
	slog.InfoContext(ctx, "Sandbox run completed",
		logging.Workflow(c.config.Workflow),
		logging.CDSService(c.config.ServiceURL),
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", report.Failed))
	return report, nil
}

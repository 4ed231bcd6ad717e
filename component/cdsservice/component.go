// Package cdsservice implements a demo CDS Hooks service: it advertises its
// services through the discovery endpoint and answers invocations with cards
// rendered by the card creator. It is the default destination for sandbox runs.
package cdsservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/healthforge/cdssandbox/cards"
	"github.com/healthforge/cdssandbox/cdshooks"
	"github.com/healthforge/cdssandbox/component"
	"github.com/rs/zerolog/log"
)

var _ component.Lifecycle = (*Component)(nil)

type Config struct {
	Services map[string]ServiceConfig `koanf:"services"`
}

type ServiceConfig struct {
	Hook        string `koanf:"hook"`
	Title       string `koanf:"title"`
	Description string `koanf:"description"`
	// Content is the static card content. When empty, a summary is derived
	// from the incoming request.
	Content string `koanf:"content"`
	// TemplateFile optionally points to a custom card template.
	TemplateFile string `koanf:"templatefile"`
}

func DefaultConfig() Config {
	return Config{
		Services: map[string]ServiceConfig{
			"sandbox": {
				Hook:        "patient-view",
				Title:       "Sandbox patient view",
				Description: "Echoes a summary card for the patient in context",
			},
		},
	}
}

type service struct {
	id      string
	config  ServiceConfig
	creator *cards.Creator
}

type Component struct {
	services map[string]service
}

func New(config Config) (*Component, error) {
	services := make(map[string]service, len(config.Services))
	for id, svcConfig := range config.Services {
		var opts []cards.Option
		if svcConfig.TemplateFile != "" {
			opts = append(opts, cards.WithTemplateFile(svcConfig.TemplateFile))
		}
		creator, err := cards.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create card creator for CDS service %s: %w", id, err)
		}
		services[id] = service{id: id, config: svcConfig, creator: creator}
	}
	return &Component{services: services}, nil
}

func (c *Component) Start() error {
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	return nil
}

func (c *Component) RegisterHttpHandlers(publicMux *http.ServeMux, _ *http.ServeMux) {
	publicMux.HandleFunc("GET /cds-services", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.discovery())
	})
	publicMux.HandleFunc("POST /cds-services/{id}", func(w http.ResponseWriter, r *http.Request) {
		svc, ok := c.services[r.PathValue("id")]
		if !ok {
			http.Error(w, "unknown CDS service: "+r.PathValue("id"), http.StatusNotFound)
			return
		}
		var request cdshooks.Request
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, "invalid CDS Hooks request: "+err.Error(), http.StatusBadRequest)
			return
		}
		response, err := c.invoke(svc, request)
		if err != nil {
			log.Error().Err(err).Str("service", svc.id).Msg("CDS service invocation failed")
			http.Error(w, "failed to render cards", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	})
}

// discovery returns the service listing, in stable id order.
func (c *Component) discovery() cdshooks.DiscoveryResponse {
	result := cdshooks.DiscoveryResponse{Services: make([]cdshooks.Service, 0, len(c.services))}
	for _, svc := range c.services {
		result.Services = append(result.Services, cdshooks.Service{
			ID:          svc.id,
			Hook:        svc.config.Hook,
			Title:       svc.config.Title,
			Description: svc.config.Description,
		})
	}
	sort.Slice(result.Services, func(i, j int) bool {
		return result.Services[i].ID < result.Services[j].ID
	})
	return result
}

func (c *Component) invoke(svc service, request cdshooks.Request) (cdshooks.Response, error) {
	content := svc.config.Content
	if content == "" {
		content = summarize(request)
	}
	card, err := svc.creator.CreateCard(content)
	if err != nil {
		return cdshooks.Response{}, err
	}
	return cdshooks.Response{Cards: []cdshooks.Card{card}}, nil
}

func summarize(request cdshooks.Request) string {
	if request.Context.PatientID == "" {
		return fmt.Sprintf("Received %s request", request.Hook)
	}
	return fmt.Sprintf("Received %s request for patient %s", request.Hook, request.Context.PatientID)
}

package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/healthforge/cdssandbox/component"
	"github.com/rs/zerolog/log"
)

var _ component.Lifecycle = (*Component)(nil)

type Config struct {
	PublicInterface   InterfaceConfig `koanf:"public"`
	InternalInterface InterfaceConfig `koanf:"internal"`
}

type InterfaceConfig struct {
	// Listener is the address the interface binds to, e.g. ":8080".
	Listener string `koanf:"listener"`
	// BaseURL is the URL under which the interface is reachable by clients.
	BaseURL string `koanf:"baseurl"`
}

func DefaultConfig() Config {
	return Config{
		PublicInterface: InterfaceConfig{
			Listener: ":8080",
			BaseURL:  "http://localhost:8080",
		},
		InternalInterface: InterfaceConfig{
			Listener: ":8081",
			BaseURL:  "http://localhost:8081",
		},
	}
}

type Component struct {
	config         Config
	publicMux      *http.ServeMux
	publicServer   *http.Server
	internalMux    *http.ServeMux
	internalServer *http.Server
}

// New creates an instance of the HTTP component, which handles the HTTP interfaces for the application.
func New(config Config, publicMux *http.ServeMux, internalMux *http.ServeMux) *Component {
	return &Component{
		config:      config,
		publicMux:   publicMux,
		internalMux: internalMux,
	}
}

// PublicBaseURL returns the URL under which the public interface is reachable.
func (c *Component) PublicBaseURL() string {
	return c.config.PublicInterface.BaseURL
}

func (c *Component) Start() error {
	c.publicServer = &http.Server{
		Addr:    c.config.PublicInterface.Listener,
		Handler: c.publicMux,
	}
	c.internalServer = &http.Server{
		Addr:    c.config.InternalInterface.Listener,
		Handler: c.internalMux,
	}
	// Bind synchronously so address conflicts surface from Start.
	publicListener, err := net.Listen("tcp", c.publicServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind public HTTP server: %w", err)
	}
	internalListener, err := net.Listen("tcp", c.internalServer.Addr)
	if err != nil {
		_ = publicListener.Close()
		return fmt.Errorf("failed to bind internal HTTP server: %w", err)
	}
	log.Info().Msgf("Starting HTTP servers (public-address: %s, internal-address: %s)", c.publicServer.Addr, c.internalServer.Addr)
	go func() {
		if err := c.publicServer.Serve(publicListener); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				log.Err(err).Msg("Public HTTP server failed")
			}
		}
	}()
	go func() {
		if err := c.internalServer.Serve(internalListener); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				log.Err(err).Msg("Internal HTTP server failed")
			}
		}
	}()
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	if err := c.publicServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown public HTTP server: %w", err)
	}
	if err := c.internalServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown internal HTTP server: %w", err)
	}
	return nil
}

func (c *Component) RegisterHttpHandlers(publicMux *http.ServeMux, _ *http.ServeMux) {
	publicMux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"service": "cds-sandbox"}`))
	})
}

package status

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/healthforge/cdssandbox/component"
)

var _ component.Lifecycle = (*Component)(nil)

type Component struct {
}

// New creates an instance of the status component, which provides a simple health check endpoint.
func New() *Component {
	return &Component{}
}

func (c Component) Start() error {
	// Nothing to do
	return nil
}

func (c Component) Stop(ctx context.Context) error {
	// Nothing to do
	return nil
}

func (c Component) RegisterHttpHandlers(_ *http.ServeMux, internalMux *http.ServeMux) {
	internalMux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	internalMux.HandleFunc("GET /status/build", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"version": Version(),
			"commit":  GitCommit,
			"os_arch": OSArch(),
		})
	})
}

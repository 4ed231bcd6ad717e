package fhirutil

import (
	"fmt"
	"net/http"
	"net/url"

	fhirclient "github.com/SanteonNL/go-fhir-client"
	"github.com/rs/zerolog/log"
)

// ClientConfig returns the FHIR client configuration used for outbound FHIR
// traffic: caching disabled, non-2xx responses logged with request context.
func ClientConfig() *fhirclient.Config {
	config := fhirclient.DefaultConfig()
	config.DefaultOptions = []fhirclient.Option{
		fhirclient.RequestHeaders(map[string][]string{
			"Cache-Control": {"no-cache"},
		}),
	}
	config.Non2xxStatusHandler = func(response *http.Response, responseBody []byte) {
		log.Debug().Msgf("Non-2xx status code from FHIR server (%s %s, status=%d), content: %s", response.Request.Method, response.Request.URL, response.StatusCode, string(responseBody))
	}
	return &config
}

// NewClient creates a FHIR client for the given base URL using ClientConfig.
func NewClient(fhirBaseURL string, httpClient *http.Client) (fhirclient.Client, error) {
	baseURL, err := url.Parse(fhirBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid FHIR base URL (url=%s): %w", fhirBaseURL, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return fhirclient.New(baseURL, httpClient, ClientConfig()), nil
}

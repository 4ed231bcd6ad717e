package cdshooks

import "encoding/json"

// Request is a CDS Hooks service request, POSTed to a CDS service endpoint.
// Empty fields are omitted from the wire representation.
type Request struct {
	Hook              string                     `json:"hook"`
	HookInstance      string                     `json:"hookInstance,omitempty"`
	FHIRServer        string                     `json:"fhirServer,omitempty"`
	FHIRAuthorization *FHIRAuthorization         `json:"fhirAuthorization,omitempty"`
	Context           Context                    `json:"context"`
	Prefetch          map[string]json.RawMessage `json:"prefetch,omitempty"`
}

// Context carries the hook context fields. Which fields are populated depends
// on the hook: patient-view requires userId and patientId, the order and
// encounter hooks additionally carry encounterId.
type Context struct {
	UserID      string `json:"userId,omitempty"`
	PatientID   string `json:"patientId,omitempty"`
	EncounterID string `json:"encounterId,omitempty"`
}

// FHIRAuthorization is the OAuth2 access grant a CDS service can use to fetch
// additional resources from the FHIR server.
type FHIRAuthorization struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
	Subject     string `json:"subject"`
}

// Service describes a single CDS service in a discovery response.
type Service struct {
	ID          string            `json:"id"`
	Hook        string            `json:"hook"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Prefetch    map[string]string `json:"prefetch,omitempty"`
}

// DiscoveryResponse is returned from GET /cds-services.
type DiscoveryResponse struct {
	Services []Service `json:"services"`
}

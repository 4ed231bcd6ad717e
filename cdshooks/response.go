package cdshooks

import (
	"encoding/json"
	"fmt"
)

// Indicator is the urgency of a card, as displayed to the user.
type Indicator string

const (
	IndicatorInfo     Indicator = "info"
	IndicatorWarning  Indicator = "warning"
	IndicatorCritical Indicator = "critical"
)

// Valid reports whether the indicator is one of the values allowed by the
// CDS Hooks specification.
func (i Indicator) Valid() bool {
	switch i {
	case IndicatorInfo, IndicatorWarning, IndicatorCritical:
		return true
	}
	return false
}

// Response is a CDS Hooks service response.
type Response struct {
	Cards         []Card   `json:"cards"`
	SystemActions []Action `json:"systemActions,omitempty"`
}

// Card is a single piece of decision support returned to the EHR.
type Card struct {
	UUID              string       `json:"uuid,omitempty"`
	Summary           string       `json:"summary"`
	Detail            string       `json:"detail,omitempty"`
	Indicator         Indicator    `json:"indicator"`
	Source            Source       `json:"source"`
	Suggestions       []Suggestion `json:"suggestions,omitempty"`
	SelectionBehavior string       `json:"selectionBehavior,omitempty"`
	OverrideReasons   []Coding     `json:"overrideReasons,omitempty"`
	Links             []Link       `json:"links,omitempty"`
}

// Validate checks the card constraints that are not expressible in the type
// system: a non-empty summary of at most 140 characters, a valid indicator and
// a source label.
func (c Card) Validate() error {
	if c.Summary == "" {
		return fmt.Errorf("card summary is required")
	}
	if len([]rune(c.Summary)) > 140 {
		return fmt.Errorf("card summary exceeds 140 characters")
	}
	if !c.Indicator.Valid() {
		return fmt.Errorf("invalid card indicator %q", c.Indicator)
	}
	if c.Source.Label == "" {
		return fmt.Errorf("card source label is required")
	}
	return nil
}

// Source describes the origin of the decision support.
type Source struct {
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// Suggestion is a suggested change the user can accept.
type Suggestion struct {
	Label         string   `json:"label"`
	UUID          string   `json:"uuid,omitempty"`
	Actions       []Action `json:"actions,omitempty"`
	IsRecommended *bool    `json:"isRecommended,omitempty"`
}

// Action is a create/update/delete applied when a suggestion is accepted.
type Action struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Resource    json.RawMessage `json:"resource,omitempty"`
	ResourceID  string          `json:"resourceId,omitempty"`
}

// Link is an external reference shown on a card.
type Link struct {
	Label      string `json:"label"`
	URL        string `json:"url"`
	Type       string `json:"type,omitempty"`
	AppContext string `json:"appContext,omitempty"`
}

// Coding is a code from a terminology system, used for override reasons.
type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code"`
	Display string `json:"display,omitempty"`
}

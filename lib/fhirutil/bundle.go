package fhirutil

import (
	"encoding/json"
	"fmt"

	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"
)

// CollectionBundle wraps the given resources in a collection Bundle, in order.
func CollectionBundle(resources ...any) (*fhir.Bundle, error) {
	bundle := &fhir.Bundle{
		Type:  fhir.BundleTypeCollection,
		Entry: make([]fhir.BundleEntry, 0, len(resources)),
	}
	for _, resource := range resources {
		raw, err := json.Marshal(resource)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal bundle resource: %w", err)
		}
		bundle.Entry = append(bundle.Entry, fhir.BundleEntry{Resource: raw})
	}
	return bundle, nil
}

// FirstResource unmarshals the first entry of a bundle into ResType.
// An empty bundle yields an error.
func FirstResource[ResType any](bundle *fhir.Bundle) (*ResType, error) {
	if len(bundle.Entry) == 0 || bundle.Entry[0].Resource == nil {
		var res ResType
		return nil, fmt.Errorf("bundle contains no %T entries", res)
	}
	var res ResType
	if err := json.Unmarshal(bundle.Entry[0].Resource, &res); err != nil {
		return nil, fmt.Errorf("unmarshal bundle entry resource into %T: %w", res, err)
	}
	return &res, nil
}

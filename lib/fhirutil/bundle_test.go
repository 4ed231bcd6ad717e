package fhirutil

import (
	"encoding/json"
	"testing"

	"github.com/healthforge/cdssandbox/lib/to"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"
)

func TestCollectionBundle(t *testing.T) {
	patient := fhir.Patient{Id: to.Ptr("p1")}
	encounter := fhir.Encounter{Id: to.Ptr("e1"), Status: fhir.EncounterStatusInProgress}

	bundle, err := CollectionBundle(patient, encounter)
	require.NoError(t, err)

	assert.Equal(t, fhir.BundleTypeCollection, bundle.Type)
	require.Len(t, bundle.Entry, 2)
	var first fhir.Patient
	require.NoError(t, json.Unmarshal(bundle.Entry[0].Resource, &first))
	assert.Equal(t, "p1", *first.Id)
}

func TestFirstResource(t *testing.T) {
	t.Run("returns first entry", func(t *testing.T) {
		bundle, err := CollectionBundle(fhir.Patient{Id: to.Ptr("p1")}, fhir.Patient{Id: to.Ptr("p2")})
		require.NoError(t, err)

		patient, err := FirstResource[fhir.Patient](bundle)
		require.NoError(t, err)
		assert.Equal(t, "p1", *patient.Id)
	})
	t.Run("empty bundle", func(t *testing.T) {
		_, err := FirstResource[fhir.Patient](&fhir.Bundle{})
		require.ErrorContains(t, err, "no")
	})
}

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/healthforge/cdssandbox/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Default(t *testing.T) {
	config, err := LoadConfig()
	require.NoError(t, err)

	// Should have default values
	assert.Equal(t, ":8080", config.HTTP.PublicInterface.Listener)
	assert.Equal(t, "patient-view", config.Sandbox.Workflow)
	assert.Equal(t, 1, config.Sandbox.Count)
	require.Contains(t, config.CDSService.Services, "sandbox")
	assert.Equal(t, "patient-view", config.CDSService.Services["sandbox"].Hook)
}

func TestLoadConfig_FromYAML(t *testing.T) {
	// Create config directory and file in an isolated working directory
	tempDir := test.TempDir(t)
	configDir := filepath.Join(tempDir, "config")
	err := os.MkdirAll(configDir, 0755)
	require.NoError(t, err)

	yamlContent := `
sandbox:
  serviceurl: "http://localhost:9090/cds-services/demo"
  workflow: "encounter-discharge"
  count: 5

cdsservice:
  services:
    "demo":
      hook: "encounter-discharge"
      content: "Discharge reviewed"
`

	configFile := filepath.Join(configDir, "cdssandbox.yml")
	err = os.WriteFile(configFile, []byte(yamlContent), 0644)
	require.NoError(t, err)

	config, err := LoadConfig()
	require.NoError(t, err)

	// Check loaded values
	assert.Equal(t, "http://localhost:9090/cds-services/demo", config.Sandbox.ServiceURL)
	assert.Equal(t, "encounter-discharge", config.Sandbox.Workflow)
	assert.Equal(t, 5, config.Sandbox.Count)

	// Check map values
	require.Contains(t, config.CDSService.Services, "demo")
	assert.Equal(t, "Discharge reviewed", config.CDSService.Services["demo"].Content)
}

func TestLoadConfig_FromEnvironmentVariables(t *testing.T) {
	// Set environment variables
	t.Setenv("CDSSB_SANDBOX_WORKFLOW", "order-sign")
	t.Setenv("CDSSB_SANDBOX_FHIRBASEURL", "http://env-test:8080/fhir")

	config, err := LoadConfig()
	require.NoError(t, err)

	// Environment variables should override defaults
	assert.Equal(t, "order-sign", config.Sandbox.Workflow)
	assert.Equal(t, "http://env-test:8080/fhir", config.Sandbox.FHIRBaseURL)
}

func TestLoadConfig_EnvOverridesYAML(t *testing.T) {
	// Create config directory and file in an isolated working directory
	tempDir := test.TempDir(t)
	configDir := filepath.Join(tempDir, "config")
	err := os.MkdirAll(configDir, 0755)
	require.NoError(t, err)

	yamlContent := `
sandbox:
  workflow: "order-select"
  serviceurl: "http://yaml:8080/cds-services/sandbox"
`

	configFile := filepath.Join(configDir, "cdssandbox.yml")
	err = os.WriteFile(configFile, []byte(yamlContent), 0644)
	require.NoError(t, err)

	// Set environment variables to override YAML
	t.Setenv("CDSSB_SANDBOX_WORKFLOW", "order-sign")
	t.Setenv("CDSSB_SANDBOX_SERVICEURL", "http://env:8080/cds-services/sandbox")

	config, err := LoadConfig()
	require.NoError(t, err)

	// Environment should override YAML
	assert.Equal(t, "order-sign", config.Sandbox.Workflow)                             // env override
	assert.Equal(t, "http://env:8080/cds-services/sandbox", config.Sandbox.ServiceURL) // env override
}

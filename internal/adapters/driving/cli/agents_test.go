package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentsCmd_PrintsRegistry(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"agents"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "general")
	assert.Contains(t, buf.String(), "Medical")
	assert.Contains(t, buf.String(), "tools: weather, calculator, clock")
	assert.Contains(t, buf.String(), "retrieval: enabled")
}

func TestAgentsCmd_RegistryNotConfigured(t *testing.T) {
	oldSpecialists := specialists
	specialists = nil
	defer func() {
		specialists = oldSpecialists
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"agents"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "specialist registry not configured")
}

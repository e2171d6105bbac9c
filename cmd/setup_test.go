package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-ats/internal/nlp"
	"github.com/spigell/resume-ats/internal/scoring"
	"github.com/spigell/resume-ats/internal/secrets"
)

// fatalLogger records entries and panics instead of exiting on Fatal.
func fatalLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, observed := observer.New(zapcore.InfoLevel)
	return zap.New(core, zap.WithFatalHook(zapcore.WriteThenPanic)), observed
}

func hintOf(t *testing.T, entry observer.LoggedEntry) string {
	t.Helper()
	hint, ok := entry.ContextMap()["hint"].(string)
	require.True(t, ok, "fatal entry has no hint")
	return hint
}

func TestMustBuildServicesRuntimeFailure(t *testing.T) {
	orig := loadRuntime
	t.Cleanup(func() { loadRuntime = orig })
	loadRuntime = func() (*nlp.Runtime, error) {
		return nil, errors.New("dictionary missing")
	}

	logger, observed := fatalLogger()
	assert.Panics(t, func() { mustBuildServices(&Config{Models: &ModelsConfig{}}, logger) })

	entries := observed.FilterLevelExact(zapcore.FatalLevel).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "loading nlp runtime", entries[0].Message)
	assert.Equal(t, hintNLPRuntime, hintOf(t, entries[0]))
}

func TestMustBuildServicesModelsFailure(t *testing.T) {
	orig := loadRuntime
	t.Cleanup(func() { loadRuntime = orig })
	loadRuntime = func() (*nlp.Runtime, error) { return &nlp.Runtime{}, nil }

	logger, observed := fatalLogger()
	assert.Panics(t, func() { mustBuildServices(&Config{Models: &ModelsConfig{}}, logger) })

	entries := observed.FilterLevelExact(zapcore.FatalLevel).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "loading models", entries[0].Message)
	assert.Equal(t, hintModels, hintOf(t, entries[0]))
	assert.Contains(t, entries[0].ContextMap()["error"], scoring.ErrInvalidArtifact.Error())
}

func TestAPIKeySource(t *testing.T) {
	t.Setenv(apiKeyEnv, "from-env")

	key, err := secrets.LoadOptional(apiKeySource(&ServerConfig{}))
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)

	key, err = secrets.LoadOptional(apiKeySource(&ServerConfig{APIKey: "inline"}))
	require.NoError(t, err)
	assert.Equal(t, "inline", key)

	file := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(file, []byte("from-file\n"), 0o600))
	key, err = secrets.LoadOptional(apiKeySource(&ServerConfig{APIKey: "inline", APIKeyFile: file}))
	require.NoError(t, err)
	assert.Equal(t, "from-file", key)

	t.Setenv(apiKeyEnv, "")
	key, err = secrets.LoadOptional(apiKeySource(&ServerConfig{}))
	require.NoError(t, err)
	assert.Empty(t, key)
}

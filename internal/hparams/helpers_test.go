package hparams

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imishinist/hparams-inspector/internal/metadata"
	"github.com/imishinist/hparams-inspector/internal/models"
)

func startInfo(t testing.TB, hparams map[string]any) []byte {
	t.Helper()
	payload, err := metadata.Encode(models.SessionStartInfo{Hparams: hparams})
	require.NoError(t, err)
	return payload
}

func session(t testing.TB, name string, hparams map[string]any) models.Session {
	t.Helper()
	return models.Session{
		Name: name,
		Tags: map[string][]byte{metadata.SessionStartInfoTag: startInfo(t, hparams)},
	}
}

package logger

import (
	"os"
	"path/filepath"
	"pulsewatch/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesToRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulsewatch.log")
	cfg := &config.Config{
		Env:         "production",
		ServiceName: "pulsewatch-test",
		Log:         config.LogConfig{File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1},
	}

	l := Init(cfg)
	l.Info().Str("endpoint_id", "abc").Msg("probe finished")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"service":"pulsewatch-test"`)
	assert.Contains(t, string(data), `"endpoint_id":"abc"`)
}

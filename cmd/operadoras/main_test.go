package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCommandIsDeterministicForSeed(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")

	run := func() map[string]any {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"stats", "--seed", "42"})
		require.NoError(t, rootCmd.Execute())

		var body map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &body))
		return body
	}

	first, second := run(), run()
	for _, key := range []string{"total_despesas", "media_despesas", "mediana_despesas", "top_5_operadoras", "distribuicao_por_uf", "timestamp"} {
		assert.Contains(t, first, key)
	}
	assert.Equal(t, first["total_despesas"], second["total_despesas"])
	assert.Equal(t, first["top_5_operadoras"], second["top_5_operadoras"])
	assert.Len(t, first["top_5_operadoras"], 5)
}

func TestLoadConfigRejectsInvalidFlags(t *testing.T) {
	cmd := serveCmd()
	require.NoError(t, cmd.Flags().Set("backend", "sheets"))

	_, err := loadConfig(cmd)
	assert.ErrorContains(t, err, "invalid data backend 'sheets'")
}

func TestServeFlags(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("TRUSTED_PROXIES", "")

	cmd := serveCmd()
	assert.Contains(t, cmd.Flags().Lookup("backend").Usage, "memory, sqlite")

	require.NoError(t, cmd.Flags().Set("trusted-proxies", "203.0.113.0/24,198.51.100.0/24"))
	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, []string{"203.0.113.0/24", "198.51.100.0/24"}, cfg.TrustedProxies)

	bad := serveCmd()
	require.NoError(t, bad.Flags().Set("trusted-proxies", "203.0.113.5"))
	_, err = loadConfig(bad)
	assert.ErrorContains(t, err, "invalid trusted proxy '203.0.113.5'")
}

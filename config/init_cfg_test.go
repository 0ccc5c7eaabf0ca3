package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ColdToo/ColdPBFT/code"
)

const testYaml = `
zap:
  level: debug
  format: console
  prefix: "[ColdPBFT]"
  director: ./logs
  encode-level: LowercaseLevelEncoder
  stacktrace-key: stacktrace
  log-in-console: true
node:
  validatorEndpoint: http://127.0.0.1:8008
  storage: /var/lib/pbft/state
  connectTimeout: 3s
`

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYaml), 0o644))

	InitConfig(path)

	require.Equal(t, "debug", GetZapConf().Level)
	require.Equal(t, "[ColdPBFT]", GetZapConf().Prefix)
	require.True(t, GetZapConf().LogInConsole)

	node := GetNodeConf()
	require.Equal(t, "http://127.0.0.1:8008", node.ValidatorEndpoint)
	require.Equal(t, "/var/lib/pbft/state", node.Storage)
	require.Equal(t, 3*time.Second, node.ConnectTimeout)
}

func TestInitConfigMissingFile(t *testing.T) {
	requirePanicsWithCode(t, code.ErrLocalConfig, func() {
		InitConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	})
}

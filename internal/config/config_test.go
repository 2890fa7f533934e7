package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thalesfsp/suggest"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "suggestd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestNewOptionsDefaults(t *testing.T) {
	o := NewOptions()

	assert.Equal(t, DefaultListenAddress, o.ListenAddress)
	assert.Equal(t, DefaultMaxMessageBytes, o.MaxMessageBytes)
	assert.Equal(t, DefaultShutdownTimeout, o.ShutdownTimeout)
	assert.Equal(t, suggest.DefaultConfig().MaxRetries, o.MaxRetries)
	assert.NoError(t, o.Validate())
}

func TestCompleteFlagsOverrideFile(t *testing.T) {
	path := writeFile(t, `
listenAddress: 127.0.0.1:7000
maxRetries: 5
seed: 99
shutdownTimeout: 3s
`)

	o := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs)

	require.NoError(t, fs.Parse([]string{"--config", path, "--max-retries", "12"}))
	require.NoError(t, o.Complete(fs))

	assert.Equal(t, "127.0.0.1:7000", o.ListenAddress)
	assert.Equal(t, int64(99), o.Seed)
	assert.Equal(t, 3*time.Second, o.ShutdownTimeout)
	assert.Equal(t, 12, o.MaxRetries)
	assert.Equal(t, DefaultMaxMessageBytes, o.MaxMessageBytes)
}

func TestCompleteWithoutFile(t *testing.T) {
	o := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs)

	require.NoError(t, fs.Parse([]string{"--seed", "4"}))
	require.NoError(t, o.Complete(fs))
	assert.Equal(t, int64(4), o.Seed)
}

func TestLoadFileErrors(t *testing.T) {
	o := NewOptions()

	assert.Error(t, o.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, o.LoadFile(writeFile(t, "unknownKey: 1\n")))
	assert.Error(t, o.LoadFile(writeFile(t, "maxRetries: [1, 2]\n")))
}

func TestValidate(t *testing.T) {
	o := NewOptions()
	o.ListenAddress = ""
	assert.Error(t, o.Validate())

	o = NewOptions()
	o.MaxMessageBytes = 0
	assert.Error(t, o.Validate())

	o = NewOptions()
	o.ShutdownTimeout = -time.Second
	assert.Error(t, o.Validate())
}

func TestApplyTo(t *testing.T) {
	o := NewOptions()
	o.Seed = 8
	o.MaxRetries = -1

	conf := suggest.DefaultConfig()
	require.NoError(t, o.ApplyTo(&conf))

	assert.Equal(t, int64(8), conf.Seed)
	assert.Equal(t, -1, conf.MaxRetries)
}

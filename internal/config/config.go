// Package config holds the process options of the suggestion daemon.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/thalesfsp/suggest"
)

const (
	// DefaultListenAddress is the port the algorithm service has always
	// been reached on.
	DefaultListenAddress = "0.0.0.0:9996"

	DefaultMaxMessageBytes = 4 * 1024 * 1024
	DefaultShutdownTimeout = 10 * time.Second

	maxConfigFileSize = 1 * 1024 * 1024
)

// Options are populated from an optional YAML file and from flags. Flags
// set explicitly on the command line win over the file.
type Options struct {
	ConfigFile string `yaml:"-"`

	ListenAddress   string        `yaml:"listenAddress"`
	MaxMessageBytes int           `yaml:"maxMessageBytes"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`

	// Sampler defaults. Request settings override both.
	Seed       int64 `yaml:"seed"`
	MaxRetries int   `yaml:"maxRetries"`
}

// NewOptions returns Options with defaults filled in.
func NewOptions() *Options {
	defaults := suggest.DefaultConfig()

	return &Options{
		ListenAddress:   DefaultListenAddress,
		MaxMessageBytes: DefaultMaxMessageBytes,
		ShutdownTimeout: DefaultShutdownTimeout,
		Seed:            defaults.Seed,
		MaxRetries:      defaults.MaxRetries,
	}
}

// AddFlags adds flags to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "path to a YAML options file")
	fs.StringVar(&o.ListenAddress, "listen-address", o.ListenAddress, "address the gRPC server listens on")
	fs.IntVar(&o.MaxMessageBytes, "max-message-bytes", o.MaxMessageBytes, "maximum gRPC message size in bytes, both directions")
	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, "time allowed for in-flight requests on shutdown")
	fs.Int64Var(&o.Seed, "seed", o.Seed, "random sampler seed used when a request has no random_state setting; 0 seeds from the clock")
	fs.IntVar(&o.MaxRetries, "max-retries", o.MaxRetries, "rejected random draws per point before falling back to a scan; <= 0 never falls back")
}

// Complete loads ConfigFile, if any, then re-applies every flag changed on
// fs so the command line keeps precedence.
func (o *Options) Complete(fs *pflag.FlagSet) error {
	if o.ConfigFile == "" {
		return nil
	}

	changed := map[string]string{}
	fs.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	if err := o.LoadFile(o.ConfigFile); err != nil {
		return err
	}

	for name, value := range changed {
		if err := fs.Set(name, value); err != nil {
			return errors.Wrapf(err, "re-apply flag --%s", name)
		}
	}

	return nil
}

// LoadFile overlays the options in the YAML file at path. Keys absent from
// the file keep their current value; unknown keys are an error.
func (o *Options) LoadFile(path string) error {
	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		return errors.Wrap(err, "stat config file")
	}

	if info.Size() > maxConfigFileSize {
		return errors.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return errors.Wrap(err, "read config file")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(o); err != nil {
		return errors.Wrapf(err, "parse config file %s", cleanPath)
	}

	return nil
}

// Validate checks the options for consistency.
func (o *Options) Validate() error {
	if o.ListenAddress == "" {
		return errors.New("listen address must not be empty")
	}

	if o.MaxMessageBytes <= 0 {
		return errors.Errorf("max message bytes must be positive, got %d", o.MaxMessageBytes)
	}

	if o.ShutdownTimeout < 0 {
		return errors.Errorf("shutdown timeout must not be negative, got %s", o.ShutdownTimeout)
	}

	return nil
}

// ApplyTo fills up config with options.
func (o *Options) ApplyTo(conf *suggest.Config) error {
	conf.Seed = o.Seed
	conf.MaxRetries = o.MaxRetries

	return nil
}

package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dymensionxyz/daclient/da"
)

const (
	// DefaultDAClientDir is the default home directory of the client
	DefaultDAClientDir    = ".daclient"
	DefaultConfigDirName  = "config"
	DefaultConfigFileName = "daclient.toml"
	MaxDispatchTimeout    = 1 * time.Hour
)

// NodeConfig stores the configuration of a DA client deployment.
type NodeConfig struct {
	RootDir string `mapstructure:"-"`

	// DispatchTimeout bounds a single dispatch, confirmation included.
	DispatchTimeout time.Duration          `mapstructure:"dispatch_timeout"`
	LogLevel        string                 `mapstructure:"log_level"`
	DA              da.ClientConfig        `mapstructure:"da"`
	Secrets         da.Secrets             `mapstructure:"secrets"`
	Instrumentation *InstrumentationConfig `mapstructure:"instrumentation"`
}

// GetViperConfig reads the config file of homeDir, overridden by the flags of cmd.
func (nc *NodeConfig) GetViperConfig(cmd *cobra.Command, homeDir string) error {
	v := viper.New()

	EnsureRoot(homeDir, nil)
	v.SetConfigName("daclient")
	v.AddConfigPath(homeDir)                                      // search root directory
	v.AddConfigPath(filepath.Join(homeDir, DefaultConfigDirName)) // search root directory /config

	// bind flags so we could override config file with flags
	if err := BindFlags(cmd, v); err != nil {
		return err
	}

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	if err := v.Unmarshal(nc); err != nil {
		return err
	}
	nc.RootDir = homeDir
	if nc.DA.ObjectStore != nil && nc.DA.ObjectStore.RootDir == "" {
		nc.DA.ObjectStore.RootDir = homeDir
	}

	return nc.Validate()
}

func (nc NodeConfig) Validate() error {
	if nc.DispatchTimeout <= 0 || nc.DispatchTimeout > MaxDispatchTimeout {
		return fmt.Errorf("dispatch_timeout must be positive and not greater than %s", MaxDispatchTimeout)
	}

	if err := nc.DA.Validate(); err != nil {
		return fmt.Errorf("da: %w", err)
	}

	if nc.DA.Client == da.Nomos && nc.Secrets.Nomos == nil {
		return fmt.Errorf("secrets: nomos credentials must be set")
	}

	if err := nc.validateInstrumentation(); err != nil {
		return fmt.Errorf("instrumentation: %w", err)
	}

	return nil
}

func (nc NodeConfig) validateInstrumentation() error {
	if nc.Instrumentation == nil {
		return nil
	}

	return nc.Instrumentation.Validate()
}

// InstrumentationConfig defines the configuration for metrics reporting.
type InstrumentationConfig struct {
	// When true, Prometheus metrics are served under /metrics on
	// PrometheusListenAddr.
	Prometheus bool `mapstructure:"prometheus"`

	// Address to listen for Prometheus collector(s) connections.
	PrometheusListenAddr string `mapstructure:"prometheus_listen_addr"`
}

func (ic InstrumentationConfig) Validate() error {
	if ic.Prometheus && ic.PrometheusListenAddr == "" {
		return fmt.Errorf("PrometheusListenAddr cannot be empty")
	}

	return nil
}

package config

import (
	"strings"
	"time"

	"github.com/dymensionxyz/daclient/da"
)

const (
	DefaultDispatchTimeout = 5 * time.Minute
	DefaultLogLevel        = "info"

	// DefaultNomosPasswordEnv is the environment variable the password of the Nomos endpoints is read from.
	DefaultNomosPasswordEnv = "NOMOS_DA_PASSWORD"
)

// DefaultNodeConfig keeps default values of NodeConfig
var DefaultNodeConfig = *DefaultConfig("")

// DefaultConfig returns a default configuration, dispatching to a local Nomos network.
func DefaultConfig(home string) *NodeConfig {
	if home == "" {
		home = "/tmp"
	}

	return &NodeConfig{
		RootDir:         home,
		DispatchTimeout: DefaultDispatchTimeout,
		LogLevel:        DefaultLogLevel,
		DA: da.ClientConfig{
			Client: da.Nomos,
			Nomos: &da.NomosConfig{
				AppID:         strings.Repeat("00", 32),
				ExecutorRPC:   "http://127.0.0.1:18080",
				ValidatorRPCs: "http://127.0.0.1:18081",
				PollInterval:  da.DefaultPollInterval,
				SoftPassLimit: da.DefaultSoftPassLimit,
				HardScanLimit: da.DefaultHardScanLimit,
			},
		},
		Secrets: da.Secrets{
			Nomos: &da.NomosSecrets{
				Username:    "nomos",
				PasswordEnv: DefaultNomosPasswordEnv,
			},
		},
		Instrumentation: &InstrumentationConfig{
			Prometheus:           false,
			PrometheusListenAddr: ":2112",
		},
	}
}

package da

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
)

const (
	// DefaultPollInterval is the delay between two confirmation passes over the validators.
	DefaultPollInterval = 1 * time.Second
	// DefaultSoftPassLimit is the number of passes after which confirmation is abandoned without error.
	DefaultSoftPassLimit = 10
	// DefaultHardScanLimit is the number of validator scans after which dispatch fails.
	DefaultHardScanLimit = 30
)

// ClientConfig selects the single DA backend of a deployment. Client names the variant and exactly
// one matching variant must be set, except for NoDA which carries no configuration.
type ClientConfig struct {
	Client      ClientType         `mapstructure:"client" json:"client"`
	Avail       *AvailConfig       `mapstructure:"avail" json:"avail,omitempty"`
	Celestia    *CelestiaConfig    `mapstructure:"celestia" json:"celestia,omitempty"`
	Eigen       *EigenConfig       `mapstructure:"eigen" json:"eigen,omitempty"`
	Nomos       *NomosConfig       `mapstructure:"nomos" json:"nomos,omitempty"`
	ObjectStore *ObjectStoreConfig `mapstructure:"object_store" json:"object_store,omitempty"`
}

// AvailConfig stores Avail DALC configuration parameters.
type AvailConfig struct {
	APINodeURL string        `mapstructure:"api_node_url" json:"api_node_url"`
	AppID      uint32        `mapstructure:"app_id" json:"app_id"`
	Timeout    time.Duration `mapstructure:"timeout" json:"timeout,omitempty"`
}

// CelestiaConfig stores Celestia DALC configuration parameters.
type CelestiaConfig struct {
	APINodeURL string        `mapstructure:"api_node_url" json:"api_node_url"`
	Namespace  string        `mapstructure:"namespace" json:"namespace"`
	ChainID    string        `mapstructure:"chain_id" json:"chain_id"`
	Timeout    time.Duration `mapstructure:"timeout" json:"timeout,omitempty"`
}

// EigenConfig stores EigenDA DALC configuration parameters.
type EigenConfig struct {
	DisperserRPC string `mapstructure:"disperser_rpc" json:"disperser_rpc"`
	EthRPC       string `mapstructure:"eth_rpc" json:"eth_rpc,omitempty"`
}

// NomosConfig stores Nomos DALC configuration parameters.
type NomosConfig struct {
	// AppID is the 32 bytes namespace, hex encoded.
	AppID string `mapstructure:"app_id" json:"app_id"`
	// ExecutorRPC receives the dispersal requests.
	ExecutorRPC string `mapstructure:"executor_rpc" json:"executor_rpc"`
	// ValidatorRPCs is a comma separated list of validator endpoints used to confirm inclusion.
	ValidatorRPCs string `mapstructure:"validator_rpcs" json:"validator_rpcs"`

	PollInterval  time.Duration `mapstructure:"poll_interval" json:"poll_interval,omitempty"`
	SoftPassLimit int           `mapstructure:"soft_pass_limit" json:"soft_pass_limit,omitempty"`
	HardScanLimit int           `mapstructure:"hard_scan_limit" json:"hard_scan_limit,omitempty"`
}

// ObjectStoreConfig stores the configuration of the object store backed client.
type ObjectStoreConfig struct {
	RootDir    string `mapstructure:"root_dir" json:"root_dir"`
	DBPath     string `mapstructure:"db_path" json:"db_path"`
	InMemory   bool   `mapstructure:"in_memory" json:"in_memory"`
	SyncWrites bool   `mapstructure:"sync_writes" json:"sync_writes"`
	// Compress stores payloads zstd compressed when it saves space.
	Compress bool `mapstructure:"compress" json:"compress"`
}

// SetDefaults sets default values for unset fields
func (c *NomosConfig) SetDefaults() {
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.SoftPassLimit == 0 {
		c.SoftPassLimit = DefaultSoftPassLimit
	}
	if c.HardScanLimit == 0 {
		c.HardScanLimit = DefaultHardScanLimit
	}
}

func (c NomosConfig) Validate() error {
	var err error
	if c.AppID == "" {
		err = multierr.Append(err, fmt.Errorf("app_id cannot be empty"))
	}
	if c.ExecutorRPC == "" {
		err = multierr.Append(err, fmt.Errorf("executor_rpc cannot be empty"))
	}
	if c.ValidatorRPCs == "" {
		err = multierr.Append(err, fmt.Errorf("validator_rpcs cannot be empty"))
	}
	if c.PollInterval < 0 {
		err = multierr.Append(err, fmt.Errorf("poll_interval must be positive or zero for default"))
	}
	if c.SoftPassLimit < 0 || c.HardScanLimit < 0 {
		err = multierr.Append(err, fmt.Errorf("scan limits must be positive or zero for default"))
	}
	return err
}

// Validate checks that exactly one variant is set and that it matches Client.
func (c ClientConfig) Validate() error {
	set := c.variants()

	var count int
	for _, ok := range set {
		if ok {
			count++
		}
	}

	switch c.Client {
	case "":
		return fmt.Errorf("client cannot be empty")
	case NoDA:
		if count != 0 {
			return fmt.Errorf("%s takes no configuration, got %d variants", NoDA, count)
		}
		return nil
	}

	ok, known := set[c.Client]
	if !known {
		return fmt.Errorf("unknown client: %s", c.Client)
	}
	if count != 1 || !ok {
		return fmt.Errorf("exactly one configuration matching client %s must be set, got %d", c.Client, count)
	}

	if c.Client == Nomos {
		if err := c.Nomos.Validate(); err != nil {
			return fmt.Errorf("nomos: %w", err)
		}
	}
	return nil
}

func (c ClientConfig) variants() map[ClientType]bool {
	return map[ClientType]bool{
		Avail:       c.Avail != nil,
		Celestia:    c.Celestia != nil,
		Eigen:       c.Eigen != nil,
		Nomos:       c.Nomos != nil,
		ObjectStore: c.ObjectStore != nil,
	}
}

// Secrets holds the credentials of the backends that need them.
type Secrets struct {
	Nomos *NomosSecrets `mapstructure:"nomos" json:"nomos,omitempty"`
}

// NomosSecrets are the basic authentication credentials of the Nomos endpoints. Each value is
// looked up in the environment variable first, then in the file, then taken as is.
type NomosSecrets struct {
	Username     string `mapstructure:"username" json:"username,omitempty"`
	UsernameEnv  string `mapstructure:"username_env" json:"username_env,omitempty"`
	Password     string `mapstructure:"password" json:"password,omitempty"`
	PasswordEnv  string `mapstructure:"password_env" json:"password_env,omitempty"`
	PasswordPath string `mapstructure:"password_path" json:"password_path,omitempty"`
}

// BasicAuth returns the resolved username and password.
func (s NomosSecrets) BasicAuth() (username, password string, err error) {
	username, err = LoadSecret(s.UsernameEnv, "", s.Username, "username")
	if err != nil {
		return "", "", err
	}
	password, err = LoadSecret(s.PasswordEnv, s.PasswordPath, s.Password, "password")
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

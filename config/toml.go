package config

import (
	"bytes"
	"path/filepath"
	"text/template"

	tmos "github.com/tendermint/tendermint/libs/os"
)

// DefaultDirPerm is the default permissions used when creating directories.
const DefaultDirPerm = 0o700

var configTemplate *template.Template

func init() {
	var err error
	tmpl := template.New("configFileTemplate")
	if configTemplate, err = tmpl.Parse(defaultConfigTemplate); err != nil {
		panic(err)
	}
}

// EnsureRoot creates the root, config, and data directories if they don't exist,
// and panics if it fails.
func EnsureRoot(rootDir string, defaultConfig *NodeConfig) {
	if err := tmos.EnsureDir(rootDir, DefaultDirPerm); err != nil {
		panic(err.Error())
	}
	if err := tmos.EnsureDir(filepath.Join(rootDir, DefaultConfigDirName), DefaultDirPerm); err != nil {
		panic(err.Error())
	}

	if defaultConfig == nil {
		return
	}

	configFilePath := filepath.Join(rootDir, DefaultConfigDirName, DefaultConfigFileName)

	// Write default config file if missing.
	if !tmos.FileExists(configFilePath) {
		WriteConfigFile(configFilePath, defaultConfig)
	}
}

// WriteConfigFile renders config using the template and writes it to configFilePath.
func WriteConfigFile(configFilePath string, config *NodeConfig) {
	var buffer bytes.Buffer

	if err := configTemplate.Execute(&buffer, config); err != nil {
		panic(err)
	}

	tmos.MustWriteFile(configFilePath, buffer.Bytes(), 0o644)
}

// Note: any changes to the comments/variables/mapstructure
// must be reflected in the appropriate struct in config/config.go or da/config.go
const defaultConfigTemplate = `
#######################################################
###          DA Client Configuration Options        ###
#######################################################

# timeout of a single dispatch, confirmation included
dispatch_timeout = "{{ .DispatchTimeout }}"
log_level = "{{ .LogLevel }}"

[da]
# nomos, object_store, no_da, avail, celestia, eigen
client = "{{ .DA.Client }}"
{{- with .DA.Nomos }}

[da.nomos]
# 32 bytes namespace, hex encoded
app_id = "{{ .AppID }}"
executor_rpc = "{{ .ExecutorRPC }}"
# comma separated, scanned in order to confirm inclusion
validator_rpcs = "{{ .ValidatorRPCs }}"
poll_interval = "{{ .PollInterval }}"
# passes over the validators after which confirmation is abandoned
soft_pass_limit = {{ .SoftPassLimit }}
# validator scans after which dispatch fails
hard_scan_limit = {{ .HardScanLimit }}
{{- end }}
{{- with .DA.ObjectStore }}

[da.object_store]
root_dir = "{{ .RootDir }}"
db_path = "{{ .DBPath }}"
in_memory = {{ .InMemory }}
sync_writes = {{ .SyncWrites }}
# zstd compress stored payloads
compress = {{ .Compress }}
{{- end }}
{{- with .DA.Avail }}

[da.avail]
api_node_url = "{{ .APINodeURL }}"
app_id = {{ .AppID }}
timeout = "{{ .Timeout }}"
{{- end }}
{{- with .DA.Celestia }}

[da.celestia]
api_node_url = "{{ .APINodeURL }}"
namespace = "{{ .Namespace }}"
chain_id = "{{ .ChainID }}"
timeout = "{{ .Timeout }}"
{{- end }}
{{- with .DA.Eigen }}

[da.eigen]
disperser_rpc = "{{ .DisperserRPC }}"
eth_rpc = "{{ .EthRPC }}"
{{- end }}
{{- with .Secrets.Nomos }}

#######################################################
###                     Secrets                     ###
#######################################################
# each value is read from the env variable first, then from the file, then taken as is
[secrets.nomos]
username = "{{ .Username }}"
username_env = "{{ .UsernameEnv }}"
password = "{{ .Password }}"
password_env = "{{ .PasswordEnv }}"
password_path = "{{ .PasswordPath }}"
{{- end }}
{{- with .Instrumentation }}

#######################################################
###       Instrumentation Configuration Options     ###
#######################################################
[instrumentation]

# When true, Prometheus metrics are served under /metrics on
# PrometheusListenAddr.
prometheus = {{ .Prometheus }}

# Address to listen for Prometheus collector(s) connections
prometheus_listen_addr = "{{ .PrometheusListenAddr }}"
{{- end }}
`

package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	FlagDispatchTimeout = "daclient.dispatch_timeout"
	FlagDAClient        = "daclient.da.client"
)

// Nomos flags only override the config file when set, an unset flag must not create the section.
const (
	FlagNomosAppID         = "daclient.da.nomos.app_id"
	FlagNomosExecutorRPC   = "daclient.da.nomos.executor_rpc"
	FlagNomosValidatorRPCs = "daclient.da.nomos.validator_rpcs"
	FlagNomosPollInterval  = "daclient.da.nomos.poll_interval"
)

// AddNodeFlags adds the configuration options to cobra Command.
func AddNodeFlags(cmd *cobra.Command) {
	def := DefaultNodeConfig

	cmd.Flags().Duration(FlagDispatchTimeout, def.DispatchTimeout, "timeout of a single dispatch, confirmation included")
	cmd.Flags().String(FlagDAClient, "", "DA client (nomos, object_store, no_da, avail, celestia, eigen)")

	cmd.Flags().String(FlagNomosAppID, "", "Nomos app id (32 bytes in hex)")
	cmd.Flags().String(FlagNomosExecutorRPC, "", "Nomos executor endpoint")
	cmd.Flags().String(FlagNomosValidatorRPCs, "", "comma separated Nomos validator endpoints")
	cmd.Flags().Duration(FlagNomosPollInterval, 0, "delay between two passes over the Nomos validators")
}

func BindFlags(cmd *cobra.Command, v *viper.Viper) error {
	if err := v.BindPFlag("dispatch_timeout", cmd.Flags().Lookup(FlagDispatchTimeout)); err != nil {
		return err
	}
	if cmd.Flags().Changed(FlagDAClient) {
		if err := v.BindPFlag("da.client", cmd.Flags().Lookup(FlagDAClient)); err != nil {
			return err
		}
	}

	for key, flag := range map[string]string{
		"da.nomos.app_id":         FlagNomosAppID,
		"da.nomos.executor_rpc":   FlagNomosExecutorRPC,
		"da.nomos.validator_rpcs": FlagNomosValidatorRPCs,
		"da.nomos.poll_interval":  FlagNomosPollInterval,
	} {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/cli"
	tmflags "github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/dymensionxyz/daclient/config"
)

const flagLogLevel = "log_level"

var logger = log.NewTMLogger(log.NewSyncWriter(os.Stdout))

func init() {
	registerFlagsRootCmd(RootCmd)
}

func registerFlagsRootCmd(cmd *cobra.Command) {
	cmd.PersistentFlags().String(flagLogLevel, config.DefaultLogLevel, "log level")
}

// homeDir returns the DAHOME environment variable when set, the home flag otherwise.
func homeDir(cmd *cobra.Command) (string, error) {
	if home := os.Getenv("DAHOME"); home != "" {
		return home, nil
	}
	return cmd.Flags().GetString(cli.HomeFlag)
}

// RootCmd is the root command of the DA client.
var RootCmd = &cobra.Command{
	Use:   "daclient",
	Short: "Dispatch batches to a data availability network",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		v := viper.GetViper()

		// cmd.Flags() includes flags from this command and all persistent flags from the parent
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		logger, err = tmflags.ParseLogLevel(v.GetString(flagLogLevel), logger, config.DefaultLogLevel)
		if err != nil {
			return err
		}

		if v.GetBool(cli.TraceFlag) {
			logger = log.NewTracingLogger(logger)
		}

		logger = logger.With("module", "main")
		return nil
	},
}

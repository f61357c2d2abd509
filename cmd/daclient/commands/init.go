package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"

	"github.com/dymensionxyz/daclient/config"
)

// InitFilesCmd writes the default configuration file.
var InitFilesCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the DA client home directory",
	RunE:  initFiles,
}

func initFiles(cmd *cobra.Command, args []string) error {
	home, err := homeDir(cmd)
	if err != nil {
		return err
	}

	configFile := filepath.Join(home, config.DefaultConfigDirName, config.DefaultConfigFileName)
	if tmos.FileExists(configFile) {
		logger.Info("Found config file", "path", configFile)
		return nil
	}

	config.EnsureRoot(home, config.DefaultConfig(home))
	logger.Info("Generated config file", "path", configFile)
	return nil
}

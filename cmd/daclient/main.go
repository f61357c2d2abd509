package main

import (
	"os"
	"path/filepath"

	"github.com/tendermint/tendermint/libs/cli"

	"github.com/dymensionxyz/daclient/cmd/daclient/commands"
	"github.com/dymensionxyz/daclient/config"
)

func main() {
	rootCmd := commands.RootCmd
	rootCmd.AddCommand(
		commands.InitFilesCmd,
		commands.NewDispatchCmd(),
		commands.NewFinalityCmd(),
		commands.NewInclusionCmd(),
		commands.NewBalanceCmd(),
		commands.NewPruneCmd(),
		commands.VersionCmd,
		cli.NewCompletionCmd(rootCmd, true),
	)

	cmd := cli.PrepareBaseCmd(rootCmd, "DA", os.ExpandEnv(filepath.Join("$HOME", config.DefaultDAClientDir)))
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package commands

import (
	"fmt"
	"strconv"

	"github.com/dymensionxyz/gerr-cosmos/gerrc"
	"github.com/spf13/cobra"

	"github.com/dymensionxyz/daclient/config"
)

// blobPruner is implemented by clients keeping batch payloads locally.
type blobPruner interface {
	PruneBlobs(from, to uint32) (uint32, error)
}

// NewPruneCmd returns the command removing stored batch payloads in [from, to).
func NewPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune [from] [to]",
		Short: "Remove the stored payloads of batches from (inclusive) to (exclusive)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("parse from: %w", err)
			}
			to, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("parse to: %w", err)
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			pruner, ok := s.client.(blobPruner)
			if !ok {
				return fmt.Errorf("client %s keeps no payloads: %w", s.client.ClientType(), gerrc.ErrInvalidArgument)
			}
			pruned, err := pruner.PruneBlobs(uint32(from), uint32(to))
			if err != nil {
				return fmt.Errorf("prune blobs: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned=%d\n", pruned)
			return nil
		},
	}

	config.AddNodeFlags(cmd)
	return cmd
}

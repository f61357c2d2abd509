package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dymensionxyz/daclient/config"
	"github.com/dymensionxyz/daclient/da"
)

// NewDispatchCmd returns the command dispatching a file, or stdin, as the payload of a batch.
func NewDispatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dispatch [batch-number] [file]",
		Short: "Dispatch a batch payload, read from file or from stdin when file is -",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			batchNumber, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("parse batch number: %w", err)
			}

			data, err := readPayload(cmd, args[1])
			if err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := s.commandContext(cmd)
			defer cancel()

			resp, err := s.client.DispatchBlob(ctx, uint32(batchNumber), data)
			if err != nil {
				return fmt.Errorf("dispatch blob: retriable: %t: %w", da.IsRetriable(err), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.BlobID)
			return nil
		},
	}

	config.AddNodeFlags(cmd)
	return cmd
}

func readPayload(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is given by the operator
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return data, nil
}

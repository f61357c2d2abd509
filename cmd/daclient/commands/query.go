package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dymensionxyz/daclient/config"
)

// NewFinalityCmd returns the command checking whether a dispatch is final.
func NewFinalityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finality [dispatch-request-id]",
		Short: "Check whether a dispatched batch is final",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := s.commandContext(cmd)
			defer cancel()

			resp, err := s.client.EnsureFinality(ctx, args[0])
			if err != nil {
				return fmt.Errorf("ensure finality: %w", err)
			}
			if resp == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "not final")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.BlobID)
			return nil
		},
	}

	config.AddNodeFlags(cmd)
	return cmd
}

// NewInclusionCmd returns the command fetching the inclusion data of a blob.
func NewInclusionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inclusion [blob-id]",
		Short: "Fetch the inclusion data of a blob, hex encoded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := s.commandContext(cmd)
			defer cancel()

			resp, err := s.client.GetInclusionData(ctx, args[0])
			if err != nil {
				return fmt.Errorf("get inclusion data: %w", err)
			}
			if resp == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no inclusion data")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%x\n", resp.Data)
			return nil
		},
	}

	config.AddNodeFlags(cmd)
	return cmd
}

// NewBalanceCmd returns the command printing the balance with the DA network.
func NewBalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the account balance with the DA network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := s.commandContext(cmd)
			defer cancel()

			balance, err := s.client.Balance(ctx)
			if err != nil {
				return fmt.Errorf("balance: %w", err)
			}
			limit, ok := s.client.BlobSizeLimit()
			if ok {
				fmt.Fprintf(cmd.OutOrStdout(), "client=%s balance=%d blob_size_limit=%d\n", s.client.ClientType(), balance, limit)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "client=%s balance=%d\n", s.client.ClientType(), balance)
			return nil
		},
	}

	config.AddNodeFlags(cmd)
	return cmd
}

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var ErrInvalidJSON = errors.New("document is not valid json")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a document is well-formed JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, inputArg(args, 0))
			if err != nil {
				return err
			}
			defer in.Close()

			data, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			if !sonic.Valid(data) {
				return ErrInvalidJSON
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid (%s)\n", humanize.Bytes(uint64(len(data))))
			return nil
		},
	}
}

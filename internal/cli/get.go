package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <path> [file]",
		Short: "Print the value at a path",
		Long: `Print the raw JSON value found at a gjson path, for example
"users.#.name" or "items.0.id".`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, inputArg(args, 1))
			if err != nil {
				return err
			}
			defer in.Close()

			data, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			if !gjson.ValidBytes(data) {
				return ErrInvalidJSON
			}
			r := gjson.GetBytes(data, args[0])
			if !r.Exists() {
				return fmt.Errorf("no value at %q", args[0])
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), r.Raw)
			return err
		},
	}
}

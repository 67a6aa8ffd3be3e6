package cli

import (
	"fmt"

	"github.com/drewjocham/go-json-utils/internal/jsonutil"
	"github.com/spf13/cobra"
)

func newFmtCmd() *cobra.Command {
	var (
		compact bool
		indent  int
	)

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Reformat a JSON document",
		Long: `Read a JSON document from a file or stdin and write it back using the
configured builder. Output is indented unless --compact is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := formatEngine(cmd, compact, indent)
			if err != nil {
				return err
			}

			in, err := openInput(cmd, inputArg(args, 0))
			if err != nil {
				return err
			}
			defer in.Close()

			v, err := jsonutil.ReadValueFromWith[any](engine, in)
			if err != nil {
				return err
			}
			if err := engine.WriteValueTo(cmd.OutOrStdout(), v); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Write the document on a single line")
	cmd.Flags().IntVar(&indent, "indent", 0, "Override the configured indent width")
	return cmd
}

func formatEngine(cmd *cobra.Command, compact bool, indent int) (*jsonutil.Engine, error) {
	if compact {
		return jsonutil.Print()
	}
	if !cmd.Flags().Changed("indent") {
		return jsonutil.PrettyPrint()
	}

	cfg, err := getConfig(cmd.Context())
	if err != nil {
		return nil, err
	}
	return jsonutil.NewBuilder().ApplyConfig(cfg).PrettyPrintIndent(indent).PrettyPrintEngine()
}

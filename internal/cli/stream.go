package cli

import (
	"fmt"

	"github.com/drewjocham/go-json-utils/internal/jsonutil"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newStreamCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "stream [file]",
		Short: "Convert a top-level JSON array to newline-delimited JSON",
		Long: `Decode the elements of a top-level array one at a time and write each
on its own line. The array is never held in memory as a whole.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, inputArg(args, 0))
			if err != nil {
				return err
			}
			seq, err := jsonutil.ReadListLazy[any](in)
			if err != nil {
				return err
			}

			var n int64
			if seq != nil {
				defer seq.Close()
				out := cmd.OutOrStdout()
				for v, err := range seq.All() {
					if err != nil {
						return fmt.Errorf("element %d: %w", n, err)
					}
					if err := jsonutil.WriteValueTo(out, v); err != nil {
						return err
					}
					if _, err := fmt.Fprintln(out); err != nil {
						return err
					}
					n++
				}
			}

			zap.S().Debugw("stream finished", "elements", n)
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s elements\n", humanize.Comma(n))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the element count")
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/drewjocham/go-json-utils/internal/config"
	"github.com/spf13/cobra"
)

const stdinArg = "-"

func getConfig(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(ctxConfigKey).(*config.Config)
	if !ok {
		return nil, fmt.Errorf("internal error: config not found in context")
	}
	return cfg, nil
}

// openInput returns the named file, or stdin when name is empty or "-".
// Closing the stdin handle is a no-op.
func openInput(cmd *cobra.Command, name string) (io.ReadCloser, error) {
	if name == "" || name == stdinArg {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

func inputArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}

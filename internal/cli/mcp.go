package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/drewjocham/go-json-utils/internal/jsonutil"
	"github.com/drewjocham/go-json-utils/internal/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start an MCP server exposing the JSON tools",
		Long: `Start the Model Context Protocol server for AI assistants.
The server talks over stdin and stdout, so logs go to stderr or --log-file.`,
		RunE: runMCP,
	}
	cmd.AddCommand(newMCPConfigCmd())
	return cmd
}

func newMCPConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print an MCP client configuration entry for this binary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			exePath, err := os.Executable()
			if err != nil {
				return fmt.Errorf("could not determine executable path: %w", err)
			}

			entry := map[string]any{
				"mcpServers": map[string]any{
					"json-utils": map[string]any{
						"command": exePath,
						"args":    []string{"mcp"},
					},
				},
			}
			if err := jsonutil.WritePrettyValueTo(cmd.OutOrStdout(), entry); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout())
			return err
		},
	}
}

func runMCP(cmd *cobra.Command, _ []string) error {
	server := mcp.NewServer(appVersion)
	if err := server.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		if isClosingError(err) {
			zap.S().Infow("mcp session ended", "reason", "client disconnected")
			return nil
		}
		return fmt.Errorf("mcp server failure: %w", err)
	}
	return nil
}

func isClosingError(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		strings.Contains(err.Error(), "EOF")
}

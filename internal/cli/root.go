package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/drewjocham/go-json-utils/internal/config"
	"github.com/drewjocham/go-json-utils/internal/jsonutil"
	"github.com/drewjocham/go-json-utils/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type contextKey string

const ctxConfigKey contextKey = "config"

var (
	configFile string
	debugMode  bool
	logFile    string
	showConfig bool

	appVersion, commit, date = "dev", "none", "unknown"
)

var ErrShowConfigDisplayed = errors.New("configuration displayed")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "jsu",
		Short:             "JSON formatting, querying and streaming toolkit",
		Version:           fmt.Sprintf("%s (commit: %s, build date: %s)", appVersion, commit, date),
		PersistentPreRunE: setupDependencies,
		PersistentPostRun: teardown,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	pFlags := cmd.PersistentFlags()
	pFlags.StringVarP(&configFile, "config", "c", "", "Path to a dotenv config file")
	pFlags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	pFlags.StringVar(&logFile, "log-file", "", "Path to write logs to a file")
	pFlags.BoolVar(&showConfig, "show-config", false, "Print the effective configuration and exit")

	cmd.AddCommand(
		newFmtCmd(), newValidateCmd(), newGetCmd(), newStreamCmd(),
		newMCPCmd(), newVersionCmd(),
	)

	return cmd
}

func setupDependencies(cmd *cobra.Command, _ []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	logPath, _ := cmd.Flags().GetString("log-file")

	cfg, err := loadConfigFromFlags(cfgPath)
	if err != nil {
		return err
	}
	debug = debug || cfg.Debug
	if logPath == "" {
		logPath = cfg.LogFile
	}
	if _, err := logging.New(debug, logPath); err != nil {
		return fmt.Errorf("logger init: %w", err)
	}

	if showConfig {
		if err := renderConfig(cmd.OutOrStdout(), cfg); err != nil {
			return err
		}
		return ErrShowConfigDisplayed
	}

	if err := jsonutil.SetBuilder(jsonutil.NewBuilder().ApplyConfig(cfg)); err != nil {
		return fmt.Errorf("apply config: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), ctxConfigKey, cfg))
	return nil
}

func renderConfig(w io.Writer, cfg *config.Config) error {
	if err := jsonutil.WritePrettyValueTo(w, cfg); err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	_, err := fmt.Fprintln(w)
	return err
}

func teardown(_ *cobra.Command, _ []string) {
	if err := zap.L().Sync(); err != nil {
		zap.S().Debugw("failed to sync logger", "error", err)
	}
}

// Execute runs the root command with a context cancelled on SIGINT or
// SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func loadConfigFromFlags(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("config load failed: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.Load(".env", ".env.local")
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return cfg, nil
}

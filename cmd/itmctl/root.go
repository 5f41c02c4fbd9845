package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	itm "github.com/drizzo-tech/proofpoint-itm"
	"github.com/drizzo-tech/proofpoint-itm/internal/settings"
)

var (
	settingsPath string
	verbose      bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "itmctl",
	Short: "Administer a Proofpoint ITM tenant",
	Long: `itmctl is an admin tool for Proofpoint ITM tenants.

Credentials come from a settings file (JSON or YAML, keys tenant_id,
client_id, client_secret, optional scope and base_url) or from the
matching ITM_-prefixed environment variables.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&settingsPath, "settings", "s", "settings.json", "settings file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newLogger builds a console logger writing to stderr, leaving stdout
// for command output.
func newLogger(verbose bool) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}

// newClient builds an API client from the settings file and flags.
// When the settings flag is left at its default and the file does not
// exist, configuration falls back to the environment.
func newClient(cmd *cobra.Command) (*itm.Client, error) {
	path := settingsPath
	if !cmd.Flags().Changed("settings") {
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}

	cfg, err := settings.Load(path)
	if err != nil {
		return nil, err
	}

	opts := []itm.ClientOption{
		itm.WithClientCredentials(cfg.ClientID, cfg.ClientSecret),
		itm.WithScope(cfg.Scope),
		itm.WithLogger(logger),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, itm.WithBaseURL(cfg.BaseURL))
	} else {
		opts = append(opts, itm.WithTenantID(cfg.TenantID))
	}

	return itm.NewClient(opts...)
}

package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"nurse-triage-backend/config"
	"nurse-triage-backend/internal/logger"
	"nurse-triage-backend/internal/service"
)

const serviceName = "nurse-triage"

// Options are the command-line flags of triaged.
type Options struct {
	ConfigPath string
	LogLevel   string
	Port       int
}

// NewOptions returns options with the config path taken from CONFIG_PATH.
func NewOptions() *Options {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	return &Options{ConfigPath: path}
}

// AddFlags binds the options to fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigPath, "config", "c", o.ConfigPath, "Path to the YAML configuration file.")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Overrides log.level from the configuration file.")
	fs.IntVar(&o.Port, "port", o.Port, "Overrides server.port from the configuration file.")
}

// Load reads the configuration and applies flag overrides.
func (o *Options) Load() (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", o.ConfigPath, err)
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.Port > 0 {
		cfg.Server.Port = o.Port
	}
	return cfg, nil
}

// NewTriagedCommand creates the triaged root command.
func NewTriagedCommand(ctx context.Context) *cobra.Command {
	opts := NewOptions()
	cmd := &cobra.Command{
		Use:          "triaged",
		Short:        "Single-patient vitals monitor for nurse triage",
		Long:         "triaged polls the current patient's vitals, classifies them, keeps the triage audit log and serves the dashboard API.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Load()
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.Log.Level, cfg.Log.Format, serviceName)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			log.Info("configuration loaded", zap.String("path", opts.ConfigPath),
				zap.String("source", cfg.Source.Kind), zap.String("patient_id", cfg.Monitor.PatientID))

			svc, err := service.New(cfg, nil, log)
			if err != nil {
				log.Error("failed to build service", zap.Error(err))
				return err
			}
			if err := svc.Run(ctx); err != nil {
				log.Error("service stopped with error", zap.Error(err))
				return err
			}
			return nil
		},
	}

	opts.AddFlags(cmd.Flags())
	return cmd
}

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/config"
	"github.com/germanamz/terrarium/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath string
	envFile    string
	baseURL    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "terrarium",
		Short:         "Dashboard for a terrarium climate controller",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to configuration file (default: ./"+config.DefaultFile+" if present)")
	flags.StringVar(&opts.envFile, "env", ".env", "path to .env file (ignored if missing)")
	flags.StringVar(&opts.baseURL, "base-url", "", "controller URL, overrides api.base_url")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error, overrides log.level")

	cmd.AddCommand(
		newTUICmd(opts),
		newStatusCmd(opts),
		newRelayCmd(opts),
		newModeCmd(opts),
		newLogsCmd(opts),
		newServeCmd(opts),
		newMCPCmd(opts),
	)

	return cmd
}

// loadConfig resolves .env, the config file and flag overrides.
func (o *rootOptions) loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(config.ResolvePath(o.configPath, "."))
	if err != nil {
		return config.Config{}, err
	}

	if o.baseURL != "" {
		cfg.API.BaseURL = o.baseURL
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// runtime is what every non-interactive command needs.
type runtime struct {
	cfg    config.Config
	log    *zap.SugaredLogger
	client *api.Client
}

func (o *rootOptions) setup() (*runtime, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.NewStderr(cfg.Log.Level)
	client := api.New(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout), api.WithLogger(log))
	log.Debugw("client_ready", "base_url", client.BaseURL())

	return &runtime{cfg: cfg, log: log, client: client}, nil
}

// cliNotifier prints successful page outcomes and keeps failures so the
// command can return them as its error.
type cliNotifier struct {
	w      io.Writer
	id     uint64
	failed []string
}

func newCLINotifier(cmd *cobra.Command) *cliNotifier {
	return &cliNotifier{w: cmd.OutOrStdout()}
}

func (n *cliNotifier) Success(msg string) uint64 { return n.print(msg) }
func (n *cliNotifier) Info(msg string) uint64    { return n.print(msg) }

func (n *cliNotifier) Error(msg string) uint64 {
	n.id++
	n.failed = append(n.failed, msg)
	return n.id
}

func (n *cliNotifier) print(msg string) uint64 {
	n.id++
	_, _ = fmt.Fprintln(n.w, msg)
	return n.id
}

func (n *cliNotifier) err() error {
	if len(n.failed) == 0 {
		return nil
	}
	return errors.New(strings.Join(n.failed, "; "))
}

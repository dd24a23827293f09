package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/petasbytes/tool-agent/internal/config"
	"github.com/petasbytes/tool-agent/internal/demo"
	"github.com/petasbytes/tool-agent/internal/telemetry"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   "agent [query...]",
		Short: "Run the tool-calling agent demo",
		Long: "Runs example queries through a chat model that can call a clock, a string\n" +
			"reverser and a calculator. Each argument replaces the default queries.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			if err := initLogger(cfg.Log); err != nil {
				return err
			}
			if err := telemetry.Configure(cfg.Telemetry); err != nil {
				log.Warn().Err(err).Msg("telemetry disabled")
			}
			defer func() { _ = telemetry.Close() }()

			d := demo.New(cfg, cmd.OutOrStdout())
			d.Queries = args
			return d.Run(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "YAML config file")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	flags.String("log-file", "", "also write logs to this file, rotated")
	flags.String("provider", config.DefaultProvider, "model provider (openai, github, anthropic)")
	flags.String("model", "", "model id, defaults to the provider preset")
	flags.Bool("verbose", false, "print every tool call and result")

	for key, flag := range map[string]string{
		"log.level":  "log-level",
		"log.format": "log-format",
		"log.file":   "log-file",
		"provider":   "provider",
		"model":      "model",
		"verbose":    "verbose",
	} {
		cobra.CheckErr(v.BindPFlag(key, flags.Lookup(flag)))
	}
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if code := exitCode(err); code != 0 {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(code)
	}
}

// exitCode maps a run error to the process status. A missing credential is a
// clean early return: the remediation is already on stdout.
func exitCode(err error) int {
	if err == nil || errors.Is(err, config.ErrMissingCredential) {
		return 0
	}
	return 1
}

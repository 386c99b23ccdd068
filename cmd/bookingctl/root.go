package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"bookingbridge/config"
	"bookingbridge/services/scheduling"
	"bookingbridge/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bookingctl",
		Short: "Operator tool for the booking bridge: scheduling API diagnostics and manual follow-ups",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
		},
		SilenceUsage: true,
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newAuthMethodsCmd())
	root.AddCommand(newEndpointsCmd())
	root.AddCommand(newJobsCmd())
	root.AddCommand(newInstancesCmd())
	root.AddCommand(newRegisterCmd())
	root.AddCommand(newFollowUpsCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bookingctl %s (commit=%s, built=%s)\n", Version, CommitSHA, BuildDate)
		},
	}
}

// cliLogger writes to stderr so stdout stays machine readable.
func cliLogger() *zap.Logger {
	logger, err := utils.InitializeLogger("development", config.AppConfig.LogLevel)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func schedulingClient(logger *zap.Logger) (*scheduling.Client, error) {
	cfg := config.AppConfig
	if cfg.SchedulingAPIKey == "" {
		return nil, fmt.Errorf("SCHEDULING_API_KEY is not set")
	}
	return scheduling.NewClient(scheduling.ClientConfig{
		BaseURL: cfg.SchedulingBaseURL,
		APIKey:  cfg.SchedulingAPIKey,
		Timeout: cfg.SchedulingTimeout,
	}, logger), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

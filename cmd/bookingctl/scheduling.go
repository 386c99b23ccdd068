package main

import (
	"encoding/json"
	"fmt"
	"os"

	"bookingbridge/config"
	"bookingbridge/models"
	"bookingbridge/services/scheduling"

	"github.com/spf13/cobra"
)

func newAuthMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth-methods",
		Short: "Try each authentication style against /me",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := schedulingClient(cliLogger())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), client.CheckAuthMethods(cmd.Context()))
		},
	}
}

func newEndpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "Probe the read-only scheduling endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := schedulingClient(cliLogger())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), client.ProbeEndpoints(cmd.Context()))
		},
	}
}

func newJobsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List existing jobs with a sample and its field names",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := schedulingClient(cliLogger())
			if err != nil {
				return err
			}
			listing, err := client.ListJobs(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), listing)
		},
	}
}

func newInstancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "instances",
		Short: "Discover scheduling instance ids for SCHEDULING_INSTANCE_ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := schedulingClient(cliLogger())
			if err != nil {
				return err
			}
			found, err := client.DiscoverInstances(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), found)
		},
	}
}

func newRegisterCmd() *cobra.Command {
	var (
		file     string
		attempts []string
	)

	c := &cobra.Command{
		Use:   "register",
		Short: "Register a confirmed booking (JSON file) as a job, printing every attempt",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var booking models.ConfirmedBooking
			if err := json.Unmarshal(raw, &booking); err != nil {
				return fmt.Errorf("decode %s: %w", file, err)
			}
			booking.TotalHours = len(booking.ServiceHours)

			logger := cliLogger()
			client, err := schedulingClient(logger)
			if err != nil {
				return err
			}
			if len(attempts) == 0 {
				attempts = config.AppConfig.SchedulingAttempts
			}
			selected, err := scheduling.SelectAttempts(attempts)
			if err != nil {
				return err
			}
			prober := scheduling.NewProber(client, selected, scheduling.Target{
				InstanceIDs: []int64{config.AppConfig.SchedulingInstanceID},
				GroupID:     config.AppConfig.SchedulingGroupID,
				Currency:    config.AppConfig.Currency,
			}, logger)

			reg, regErr := prober.Register(cmd.Context(), booking)
			if err := printJSON(cmd.OutOrStdout(), reg); err != nil {
				return err
			}
			return regErr
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "Path to a confirmed booking JSON file")
	c.Flags().StringSliceVar(&attempts, "attempts", nil, "Attempt names to try, in order (default: SCHEDULING_ATTEMPTS)")
	_ = c.MarkFlagRequired("file")
	return c
}

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/query"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/steps"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/config"
	"github.com/spf13/cobra"
)

type SessionOptions struct {
	*RootOptions
	Session string
}

func NewProgressCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show the onboarding progress of a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openSessionDeps(cmd, opts)
			if err != nil {
				return err
			}
			defer d.Close()

			resp := query.NewGetProgress().Query(cmd.Context(), d.store(opts.Session))
			if opts.Format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			completed := make([]string, 0, len(resp.CompletedSteps))
			for _, s := range resp.CompletedSteps {
				completed = append(completed, string(s))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "session:   %s\n", opts.Session)
			fmt.Fprintf(cmd.OutOrStdout(), "tenant:    %s\n", resp.TenantID)
			fmt.Fprintf(cmd.OutOrStdout(), "target:    %s\n", resp.TargetStep)
			fmt.Fprintf(cmd.OutOrStdout(), "completed: %s\n", strings.Join(completed, ", "))
			fmt.Fprintf(cmd.OutOrStdout(), "progress:  %d%%\n", resp.Progress)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Session, "session", "", "onboarding session id")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}

func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear onboarding data of a session, keeping its tenant id",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openSessionDeps(cmd, opts)
			if err != nil {
				return err
			}
			defer d.Close()

			if err = steps.Cleanup(cmd.Context(), d.store(opts.Session)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "session %s reset\n", opts.Session)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Session, "session", "", "onboarding session id")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}

func openSessionDeps(cmd *cobra.Command, opts *SessionOptions) (*deps, error) {
	cfg, err := config.NewOnboardingConfig()
	if err != nil {
		return nil, err
	}
	if cfg.FlagBackend == config.BackendMemory {
		return nil, fmt.Errorf("%s needs a persistent FLAG_BACKEND, got %s", cmd.Name(), cfg.FlagBackend)
	}
	return openDeps(cmd.Context(), cfg)
}

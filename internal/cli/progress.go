package cli

import (
	"github.com/spf13/cobra"
)

// NewProgressCmd prints the stored totals with today's effective streak.
func NewProgressCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Print total points, streak and daily best",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			rt, err := buildRuntime(cmd.Context(), cfg, logger, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			p, err := rt.service.DisplayProgress(cmd.Context())
			if err != nil {
				return err
			}
			printProgress(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"wizkid-challenge/internal/domain"
)

// NewDailyCmd prints today's questions without their answers.
func NewDailyCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Print today's question set",
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

			set, err := rt.service.Today(cmd.Context())
			if err != nil {
				return err
			}
			printDaily(cmd.OutOrStdout(), set)
			return nil
		},
	}
}

func printDaily(out io.Writer, set domain.DailyQuestionSet) {
	fmt.Fprintf(out, "Questions for %s\n", set.Date)
	for _, subject := range set.Subjects {
		fmt.Fprintf(out, "\n%s\n", subject)
		for _, q := range set.PerSubject[subject] {
			fmt.Fprintf(out, "  - %s\n", q.Public().Text)
		}
	}
}

package app

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	health "github.com/hirenkeraliya/go-health"
)

func newRunCommand(opts *Options) *cobra.Command {
	var (
		all           bool
		failOnFailure bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the checks due this minute and print their reports as JSON",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := opts.newHealth()
			if err != nil {
				return err
			}

			now := opts.now()
			var reports map[string]health.Report
			if all {
				reports = h.RunAll(cmd.Context(), now)
			} else {
				reports = h.RunDue(cmd.Context(), now)
			}

			ordered := make([]health.Report, 0, len(reports))
			failures := 0
			for _, check := range h.Checks() {
				report, ok := reports[check.Name()]
				if !ok {
					continue
				}
				ordered = append(ordered, report)
				if !report.IsHealthy() {
					failures++
				}
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "\t")
			if err := encoder.Encode(ordered); err != nil {
				return errors.Wrap(err, "render reports")
			}

			if failOnFailure && failures > 0 {
				return errors.Errorf("%d of %d checks failed", failures, len(ordered))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "run every check regardless of schedule and run condition")
	cmd.Flags().BoolVar(&failOnFailure, "fail-on-failure", false, "exit with a non-zero code when a check failed or crashed")

	return cmd
}

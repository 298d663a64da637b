package app

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

type scheduled interface {
	Expression() string
	NextRun(now time.Time) (time.Time, error)
}

func newListCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured checks with their schedule and next due time",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := opts.newHealth()
			if err != nil {
				return err
			}

			now := opts.now()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLABEL\tSCHEDULE\tNEXT RUN")
			for _, check := range h.Checks() {
				schedule, next := "-", "-"
				if s, ok := check.(scheduled); ok {
					schedule = s.Expression()
					if t, err := s.NextRun(now); err != nil {
						next = "invalid schedule"
					} else if !t.IsZero() {
						next = t.Format("2006-01-02 15:04")
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", check.Name(), check.Label(), schedule, next)
			}

			return w.Flush()
		},
	}
}

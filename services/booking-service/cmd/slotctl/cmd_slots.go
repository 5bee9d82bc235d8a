package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/meetings"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

func newSlotsCmd(opts *options) *cobra.Command {
	var (
		date string
		tz   string
	)
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Print the classified slot grid of one date",
		Long: `Print every candidate slot of --date in --timezone with its status.

Booked slots are fetched from --api when it is set; otherwise the grid shows
business rules and lead time only.

Examples:
  slotctl slots --date 2024-03-05 --timezone America/New_York
  slotctl slots --date 2024-03-05 --api http://localhost:8083/api/v1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := model.ParseDate(date)
			if err != nil {
				return err
			}
			conv, svc, err := opts.engine()
			if err != nil {
				return err
			}
			display, err := opts.displayZone(tz, conv.Business())
			if err != nil {
				return err
			}

			var booked []model.ClockTime
			if opts.apiURL != "" {
				ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
				defer cancel()
				booked, err = meetings.NewClient(opts.apiURL, opts.timeout).BookedSlots(ctx, d, display)
				if err != nil {
					return err
				}
			}

			day, err := svc.Day(d, display, booked)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s in %s (now %s, business zone %s)\n", day.Date, day.Zone, day.Now, conv.Business())
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tLABEL\tPERIOD\tSTATUS")
			for _, s := range day.Slots {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Clock, s.Label, s.Period, s.Status)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "calendar date, YYYY-MM-DD")
	cmd.Flags().StringVar(&tz, "timezone", "", "display zone (IANA name); business zone when empty")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

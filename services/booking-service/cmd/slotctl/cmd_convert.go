package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

func newConvertCmd(opts *options) *cobra.Command {
	var (
		date       string
		clock      string
		tz         string
		toBusiness bool
	)
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a wall clock reading between a client zone and the business zone",
		Long: `Convert --date --time from the business zone into --timezone, or with
--to-business from --timezone into the business zone.

Examples:
  slotctl convert --date 2024-03-05 --time 09:00 --timezone America/New_York
  slotctl convert --date 2024-03-05 --time 20:00 --timezone America/New_York --to-business`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := model.ParseDate(date)
			if err != nil {
				return err
			}
			c, err := model.ParseClock(clock)
			if err != nil {
				return err
			}
			conv, _, err := opts.engine()
			if err != nil {
				return err
			}
			client, err := opts.displayZone(tz, conv.Business())
			if err != nil {
				return err
			}

			from := model.LocalInstant{Date: d, Clock: c, Zone: conv.Business()}
			to := client
			if toBusiness {
				from.Zone, to = client, conv.Business()
			}
			out, err := conv.Convert(from, to)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", from, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "calendar date, YYYY-MM-DD")
	cmd.Flags().StringVar(&clock, "time", "", "wall clock, HH:MM")
	cmd.Flags().StringVar(&tz, "timezone", "", "client zone (IANA name)")
	cmd.Flags().BoolVar(&toBusiness, "to-business", false, "read --date --time in --timezone and convert into the business zone")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}

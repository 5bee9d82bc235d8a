package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/md-rashed-zaman/consultbook/libs/httpx"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/booking"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/meetings"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

func newBookCmd(opts *options) *cobra.Command {
	var (
		date    string
		clock   string
		tz      string
		contact booking.Contact
	)
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a consultation slot through the meetings API",
		Long: `Load the grid for --date, select --time and submit the booking to --api.

A slot taken in the meantime is reported together with the slots still open.

Example:
  slotctl book --api http://localhost:8083/api/v1 --date 2024-03-05 --time 09:00 \
    --timezone America/New_York --name "Ana" --email ana@example.com --description "intro call"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.apiURL) == "" {
				return errors.New("--api or MEETINGS_API_URL is required")
			}
			d, err := model.ParseDate(date)
			if err != nil {
				return err
			}
			c, err := model.ParseClock(clock)
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

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*opts.timeout)
			defer cancel()
			ctx = httpx.ContextWithRequestID(ctx, uuid.NewString())

			flow := booking.NewFlow(svc, meetings.NewClient(opts.apiURL, opts.timeout), booking.NewBuilder(conv), display)
			if _, err := flow.SelectDate(ctx, d); err != nil {
				return err
			}
			if err := flow.SelectTime(c); err != nil {
				return err
			}
			m, err := flow.Submit(ctx, contact)
			out := cmd.OutOrStdout()
			if errors.Is(err, booking.ErrSlotConflict) {
				fmt.Fprintf(out, "%s %s was just taken\n", d, c)
				if day, rerr := flow.Refresh(ctx); rerr == nil {
					fmt.Fprintln(out, "still open:", openSlots(day.Slots))
				}
				return err
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "booked %s\n  client:   %s %s %s\n  business: %s %s %s\n",
				m.ID, m.ClientDate, m.ClientTime, m.ClientZone, m.BusinessDate, m.BusinessTime, conv.Business())
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "calendar date, YYYY-MM-DD")
	cmd.Flags().StringVar(&clock, "time", "", "slot time, HH:MM")
	cmd.Flags().StringVar(&tz, "timezone", "", "client zone (IANA name); business zone when empty")
	cmd.Flags().StringVar(&contact.Name, "name", "", "client name")
	cmd.Flags().StringVar(&contact.Email, "email", "", "client email")
	cmd.Flags().StringVar(&contact.Description, "description", "", "what the consultation is about")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}

func openSlots(slots []availability.Slot) string {
	var open []string
	for _, s := range slots {
		if s.Status.Selectable() {
			open = append(open, s.Clock.String())
		}
	}
	if len(open) == 0 {
		return "none"
	}
	return strings.Join(open, " ")
}

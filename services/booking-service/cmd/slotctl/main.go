package main

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/md-rashed-zaman/consultbook/libs/config"
	"github.com/md-rashed-zaman/consultbook/libs/runtime"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/convert"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/rules"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/zone"
)

func main() {
	_ = runtime.LoadDotEnv()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options are the flags shared by every subcommand.
type options struct {
	rulesFile string
	apiURL    string
	timeout   time.Duration
	now       string
	fixed     []string
	zones     zone.Provider
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "slotctl",
		Short:         "Inspect consultation slots and book them from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			aliases, err := zone.ParseFixed(opts.fixed)
			if err != nil {
				return err
			}
			opts.zones = zone.WithAliases(aliases)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.rulesFile, "rules", config.String("RULES_FILE", ""), "YAML business rules file (built-in defaults when empty)")
	root.PersistentFlags().StringVar(&opts.apiURL, "api", config.String("MEETINGS_API_URL", ""), "meetings API base URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "meetings API request timeout")
	root.PersistentFlags().StringSliceVar(&opts.fixed, "fixed-zone", config.List("FIXED_ZONES", ""), "fixed-offset zone alias NAME=+HH:MM (repeatable)")
	root.PersistentFlags().StringVar(&opts.now, "now", "", "pretend the current instant is this RFC 3339 timestamp")

	root.AddCommand(
		newSlotsCmd(opts),
		newBookCmd(opts),
		newConvertCmd(opts),
		newHealthCmd(),
	)
	return root
}

// engine builds the converter and availability service from the rule file.
func (o *options) engine() (*convert.Converter, *availability.Service, error) {
	cfg, err := rules.Load(o.rulesFile)
	if err != nil {
		return nil, nil, err
	}
	eng, err := rules.NewEngine(cfg, o.zones)
	if err != nil {
		return nil, nil, err
	}
	now := time.Now
	if strings.TrimSpace(o.now) != "" {
		fixed, err := time.Parse(time.RFC3339, o.now)
		if err != nil {
			return nil, nil, fmt.Errorf("--now: %w", err)
		}
		now = func() time.Time { return fixed }
	}
	conv := convert.New(o.zones, cfg.Zone())
	svc := availability.NewService(conv, eng, availability.Options{
		OpenHour:      cfg.OpenHour,
		CloseHour:     cfg.CloseHour,
		LeadTimeHours: cfg.LeadTimeHours,
		Now:           now,
	})
	return conv, svc, nil
}

// displayZone resolves zone, falling back to the business zone when it is empty.
func (o *options) displayZone(raw string, business model.ZoneID) (model.ZoneID, error) {
	z := model.ZoneID(strings.TrimSpace(raw))
	if z == "" {
		return business, nil
	}
	if _, ok := zone.Resolve(o.zones, z, business); !ok {
		return "", fmt.Errorf("%w: %q", zone.ErrUnknownZone, z)
	}
	return z, nil
}

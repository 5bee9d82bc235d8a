package rules

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

// WeeklyRule blocks [StartHour, EndHour] on matching days, in business-local time. A day matches
// by Weekday, or by RRule (anchored at Since) when one is given.
type WeeklyRule struct {
	Weekday   string `yaml:"weekday,omitempty" json:"weekday,omitempty"`
	StartHour int    `yaml:"start_hour" json:"start_hour"`
	EndHour   int    `yaml:"end_hour" json:"end_hour"`
	RRule     string `yaml:"rrule,omitempty" json:"rrule,omitempty"`
	Since     string `yaml:"since,omitempty" json:"since,omitempty"`
}

// Config is the business scheduling policy. All hours are business-local.
type Config struct {
	BusinessZone  string       `yaml:"business_zone" json:"business_zone"`
	OpenHour      int          `yaml:"open_hour" json:"open_hour"`
	CloseHour     int          `yaml:"close_hour" json:"close_hour"`
	LeadTimeHours int          `yaml:"lead_time_hours" json:"lead_time_hours"`
	Weekly        []WeeklyRule `yaml:"weekly" json:"weekly"`
	Daily         []int        `yaml:"daily" json:"daily"`
}

func DefaultConfig() Config {
	return Config{
		BusinessZone:  "Europe/Sofia",
		OpenHour:      7,
		CloseHour:     18,
		LeadTimeHours: 2,
		Weekly: []WeeklyRule{
			{Weekday: "monday", StartHour: 10, EndHour: 15},
			{Weekday: "wednesday", StartHour: 10, EndHour: 15},
			{Weekday: "friday", StartHour: 10, EndHour: 15},
		},
		Daily: []int{17, 18},
	}
}

// Load reads a YAML rule file on top of the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultConfig(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse rules: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var errInvalidRule = errors.New("invalid rule")

func (c Config) Validate() error {
	if strings.TrimSpace(c.BusinessZone) == "" {
		return fmt.Errorf("%w: business_zone is required", errInvalidRule)
	}
	if !validHour(c.OpenHour) || !validHour(c.CloseHour) || c.OpenHour > c.CloseHour {
		return fmt.Errorf("%w: opening window %d-%d", errInvalidRule, c.OpenHour, c.CloseHour)
	}
	if c.LeadTimeHours < 0 {
		return fmt.Errorf("%w: lead_time_hours must not be negative", errInvalidRule)
	}
	for i, w := range c.Weekly {
		if _, err := compileWeekly(w); err != nil {
			return fmt.Errorf("weekly[%d]: %w", i, err)
		}
	}
	for i, h := range c.Daily {
		if !validHour(h) {
			return fmt.Errorf("%w: daily[%d] hour %d", errInvalidRule, i, h)
		}
	}
	return nil
}

func (c Config) Zone() model.ZoneID { return model.ZoneID(c.BusinessZone) }

// BlackoutRule is a compiled weekly rule.
type BlackoutRule struct {
	Weekday   time.Weekday
	StartHour int
	EndHour   int

	recurrence *rrule.RRule
}

func compileWeekly(w WeeklyRule) (BlackoutRule, error) {
	if !validHour(w.StartHour) || !validHour(w.EndHour) || w.StartHour > w.EndHour {
		return BlackoutRule{}, fmt.Errorf("%w: hours %d-%d", errInvalidRule, w.StartHour, w.EndHour)
	}
	rule := BlackoutRule{StartHour: w.StartHour, EndHour: w.EndHour}

	if strings.TrimSpace(w.RRule) != "" {
		r, err := rrule.StrToRRule(strings.TrimPrefix(strings.TrimSpace(w.RRule), "RRULE:"))
		if err != nil {
			return BlackoutRule{}, fmt.Errorf("%w: rrule %q: %v", errInvalidRule, w.RRule, err)
		}
		anchor := model.CalendarDate{Year: 2024, Month: time.January, Day: 1}
		if strings.TrimSpace(w.Since) != "" {
			anchor, err = model.ParseDate(strings.TrimSpace(w.Since))
			if err != nil {
				return BlackoutRule{}, fmt.Errorf("%w: since: %v", errInvalidRule, err)
			}
		}
		// Recurrence is evaluated on naive business-local dates carried as UTC midnights.
		r.DTStart(model.LocalInstant{Date: anchor}.Naive())
		rule.recurrence = r
		return rule, nil
	}

	wd, ok := parseWeekday(w.Weekday)
	if !ok {
		return BlackoutRule{}, fmt.Errorf("%w: weekday %q", errInvalidRule, w.Weekday)
	}
	rule.Weekday = wd
	return rule, nil
}

func parseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return d, true
		}
	}
	return 0, false
}

func validHour(h int) bool { return h >= 0 && h <= 23 }

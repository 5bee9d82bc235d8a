package slots

import (
	"strings"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

// Regions whose everyday clock is 12-hour. Matched by exact zone name or by prefix ending in "/".
var twelveHourZones = []string{
	// United States
	"America/New_York", "America/Detroit", "America/Kentucky/", "America/Indiana/",
	"America/Chicago", "America/Menominee", "America/North_Dakota/", "America/Denver",
	"America/Boise", "America/Phoenix", "America/Los_Angeles", "America/Anchorage",
	"America/Juneau", "America/Sitka", "America/Metlakatla", "America/Yakutat", "America/Nome",
	"America/Adak", "Pacific/Honolulu", "America/Puerto_Rico", "US/",
	// Canada (English-speaking provinces)
	"America/Toronto", "America/Vancouver", "America/Edmonton", "America/Winnipeg",
	"America/Halifax", "America/St_Johns", "America/Regina", "Canada/",
	// Oceania
	"Australia/", "Pacific/Auckland", "Pacific/Chatham",
	// South Asia, Philippines, Egypt
	"Asia/Kolkata", "Asia/Calcutta", "Asia/Karachi", "Asia/Dhaka", "Asia/Manila", "Africa/Cairo",
}

// Uses12HourClock reports whether labels for zone should use AM/PM.
func Uses12HourClock(zone model.ZoneID) bool {
	name := string(zone)
	for _, z := range twelveHourZones {
		if strings.HasSuffix(z, "/") {
			if strings.HasPrefix(name, z) {
				return true
			}
			continue
		}
		if name == z {
			return true
		}
	}
	return false
}

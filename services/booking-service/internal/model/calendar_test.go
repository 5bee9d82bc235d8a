package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCalendarDate_AddDays(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"2024-01-15", 1, "2024-01-16"},
		{"2024-01-31", 1, "2024-02-01"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2023-12-31", 1, "2024-01-01"},
		{"2024-01-01", -1, "2023-12-31"},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tc.in, err)
		}
		if got := d.AddDays(tc.n).String(); got != tc.want {
			t.Fatalf("%s + %d = %s, want %s", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("07:05")
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	if c != (ClockTime{Hour: 7, Minute: 5}) || c.String() != "07:05" {
		t.Fatalf("unexpected clock %+v", c)
	}
	if _, err := ParseClock("25:00"); err == nil {
		t.Fatalf("expected error for 25:00")
	}
}

func TestLocalInstant_NaiveRoundTrip(t *testing.T) {
	li := LocalInstant{Date: CalendarDate{2024, time.February, 29}, Clock: ClockTime{23, 30}, Zone: "Europe/Sofia"}
	if got := FromNaive(li.Naive(), li.Zone); got != li {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, li)
	}
}

func TestTextMarshaling(t *testing.T) {
	body, err := json.Marshal(struct {
		Date   CalendarDate `json:"date"`
		Time   ClockTime    `json:"time"`
		Status SlotStatus   `json:"status"`
		Period Period       `json:"period"`
	}{CalendarDate{2024, time.January, 15}, ClockTime{9, 0}, Blocked, Afternoon})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"date":"2024-01-15","time":"09:00","status":"blocked","period":"afternoon"}`
	if string(body) != want {
		t.Fatalf("got %s, want %s", body, want)
	}

	var in struct {
		Date CalendarDate `json:"date"`
		Time ClockTime    `json:"time"`
	}
	if err := json.Unmarshal([]byte(`{"date":"2024-12-31","time":"18:00"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.Date.String() != "2024-12-31" || in.Time != At(18) {
		t.Fatalf("unexpected decode %+v", in)
	}
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/model"
)

func TestKey(t *testing.T) {
	got := Key("booked", model.CalendarDate{Year: 2024, Month: time.March, Day: 5})
	if got != "booked:2024-03-05" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeDecode(t *testing.T) {
	clocks := []model.ClockTime{model.At(9), {Hour: 13, Minute: 30}}
	raw := Encode(clocks)
	if raw != "09:00,13:30" {
		t.Fatalf("encoded %q", raw)
	}
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 2 || got[1] != clocks[1] {
		t.Fatalf("decoded %v", got)
	}

	empty, err := Decode("")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("empty day: %v %v", empty, err)
	}
	if _, err := Decode("9am"); err == nil {
		t.Fatalf("expected error for malformed entry")
	}
}

func TestBookedSlotCache_UnreachableRedis(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	c := NewBookedSlotCache(rdb, 0, "")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, hit, err := c.Get(ctx, model.CalendarDate{Year: 2024, Month: 1, Day: 1}); err == nil || hit {
		t.Fatalf("expected error and miss, got hit=%v err=%v", hit, err)
	}
}

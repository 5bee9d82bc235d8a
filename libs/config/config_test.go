package config

import (
	"testing"
	"time"
)

func TestPort(t *testing.T) {
	t.Setenv("CB_PORT", "70000")
	if _, err := Port("CB_PORT", "8083"); err == nil {
		t.Fatalf("expected error for out of range port")
	}
	t.Setenv("CB_PORT", "")
	p, err := Port("CB_PORT", "8083")
	if err != nil || p != "8083" {
		t.Fatalf("expected fallback 8083, got %q (%v)", p, err)
	}
}

func TestTypedValues(t *testing.T) {
	t.Setenv("CB_INT", "42")
	t.Setenv("CB_BAD_INT", "x")
	t.Setenv("CB_BOOL", "off")
	t.Setenv("CB_DUR", "90s")
	t.Setenv("CB_DUR_SECS", "30")
	t.Setenv("CB_LIST", " a, ,b ,")

	if got := Int("CB_INT", 1); got != 42 {
		t.Fatalf("Int = %d", got)
	}
	if got := Int("CB_BAD_INT", 7); got != 7 {
		t.Fatalf("Int fallback = %d", got)
	}
	if got := Bool("CB_BOOL", true); got {
		t.Fatalf("Bool(off) = true")
	}
	if got := Bool("CB_MISSING", true); !got {
		t.Fatalf("Bool fallback = false")
	}
	if got := Duration("CB_DUR", time.Second); got != 90*time.Second {
		t.Fatalf("Duration = %s", got)
	}
	if got := Duration("CB_DUR_SECS", time.Second); got != 30*time.Second {
		t.Fatalf("Duration secs = %s", got)
	}
	got := List("CB_LIST", "")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("List = %v", got)
	}
}

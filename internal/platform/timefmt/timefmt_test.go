package timefmt

import (
	"testing"
	"time"
)

func TestFormatParseRoundTrip(t *testing.T) {
	t.Parallel()
	cases := []time.Time{
		time.Date(2026, 10, 16, 9, 0, 0, 0, time.Local),
		time.Date(2026, 10, 16, 13, 45, 12, 123456000, time.Local),
	}
	for _, want := range cases {
		got, err := Parse(Format(want))
		if err != nil {
			t.Fatalf("parse %s: %v", Format(want), err)
		}
		if !got.Equal(want) {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
	if s := Format(cases[0]); s != "2026-10-16T09:00:00" {
		t.Fatalf("unexpected naive format %q", s)
	}
}

func TestParseAcceptsNaiveAndOffsetForms(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{
		"2026-10-16T09:00:00",
		"2026-10-16T09:00:00.5",
		"2026-10-16 09:00:00",
		"2026-10-16T09:00:00Z",
		"2026-10-16T09:00:00+02:00",
		"2026-10-16",
	} {
		if _, err := Parse(raw); err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
	}
	if _, err := Parse("next tuesday"); err == nil {
		t.Fatalf("expected error for free text")
	}
	if _, err := Parse(""); err == nil {
		t.Fatalf("expected error for empty value")
	}
}

package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2026-01-12")
	if !ok || FormatDate(got) != "2026-01-12" {
		t.Fatalf("unexpected date %v ok=%v", got, ok)
	}
	got, ok = ParseDate("2026-01-12T23:30:00-05:00")
	if !ok || FormatDate(got) != "2026-01-13" {
		t.Fatalf("expected UTC calendar date, got %v", got)
	}
	if _, ok := ParseDate("12/01/2026"); ok {
		t.Fatalf("expected failure")
	}
	if _, ok := ParseDate(""); ok {
		t.Fatalf("expected failure on empty")
	}
}

func TestParseIntDefault(t *testing.T) {
	if ParseIntDefault("", 5) != 5 || ParseIntDefault("x", 5) != 5 || ParseIntDefault("7", 5) != 7 {
		t.Fatalf("unexpected ParseIntDefault result")
	}
}

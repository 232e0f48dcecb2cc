package shared

import (
	"net/url"
	"testing"
	"time"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  Page
	}{
		{name: "defaults", query: url.Values{}, want: Page{Limit: 50}},
		{name: "explicit", query: url.Values{"limit": {"20"}, "offset": {"40"}}, want: Page{Limit: 20, Offset: 40}},
		{name: "capped", query: url.Values{"limit": {"5000"}}, want: Page{Limit: 200}},
		{name: "garbage", query: url.Values{"limit": {"-3"}, "offset": {"x"}}, want: Page{Limit: 50}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := ParsePage(tc.query, 50, 200); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestPageNavigation(t *testing.T) {
	first := Page{Limit: 50}
	if _, ok := first.Prev(); ok {
		t.Fatal("first page has no previous page")
	}
	next, ok := first.Next(50, 120)
	if !ok || next.Offset != 50 {
		t.Fatalf("unexpected next page %+v", next)
	}
	last := Page{Limit: 50, Offset: 100}
	if _, ok := last.Next(20, 120); ok {
		t.Fatal("last page has no next page")
	}
	if prev, ok := (Page{Limit: 50, Offset: 30}).Prev(); !ok || prev.Offset != 0 {
		t.Fatalf("expected previous page clamped to zero, got %+v", prev)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "blank", input: "  "},
		{name: "calendar date", input: "2024-03-04", want: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{name: "timestamp keeps its own date", input: "2024-03-04T23:30:00+07:00", want: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{name: "day first", input: "04/03/2024", wantErr: true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil || !got.Equal(tc.want) {
				t.Fatalf("got %v, %v; want %v", got, err, tc.want)
			}
		})
	}
}

package server

import (
	"context"
	"testing"

	"hrportal/internal/platform/config"
)

func TestResolveFeatures(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  map[string]bool
	}{
		{name: "defaults", input: []string{"client", "employee_input", "admin"}, want: map[string]bool{"client": true, "employee_input": true, "admin": true}},
		{name: "unknown ignored", input: []string{"client", "payroll"}, want: map[string]bool{"client": true}},
		{name: "none", input: nil, want: map[string]bool{}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveFeatures(tc.input)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for name := range tc.want {
				if !got[name] {
					t.Fatalf("missing feature %s in %v", name, got)
				}
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(context.Background(), config.Config{})
	if err == nil {
		t.Fatal("expected config validation error")
	}
}

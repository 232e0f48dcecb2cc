package audit

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestBuildBaseQuery(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		contains []string
		args     int
	}{
		{name: "no filter", filter: Filter{}, contains: []string{"WHERE true"}, args: 0},
		{name: "action", filter: Filter{Action: "employee.create"}, contains: []string{"e.action = $1"}, args: 1},
		{
			name:     "all",
			filter:   Filter{Action: "a", EntityType: "employee", ActorUser: "u"},
			contains: []string{"e.action = $1", "e.entity_type = $2", "e.actor_user_id::text = $3"},
			args:     3,
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			query, args := buildBaseQuery("SELECT 1", tc.filter)
			for _, fragment := range tc.contains {
				if !strings.Contains(query, fragment) {
					t.Fatalf("expected %q in %q", fragment, query)
				}
			}
			if len(args) != tc.args {
				t.Fatalf("expected %d args, got %d", tc.args, len(args))
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	events := []Event{
		{ActorID: "u1", ActorName: "hr", Action: "employee.create", EntityType: "employee", EntityID: "e1", CreatedAt: time.Date(2024, 3, 4, 1, 0, 0, 0, time.UTC)},
		{ActorID: "u2", Action: "account.deactivate", EntityType: "account", EntityID: "u9", CreatedAt: time.Date(2024, 3, 4, 2, 0, 0, 0, time.UTC)},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, events, loc); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "2024-03-04 08:00:00,hr,employee.create") {
		t.Fatalf("unexpected row %q", lines[1])
	}
	if !strings.Contains(lines[2], ",u2,") {
		t.Fatalf("expected actor id fallback, got %q", lines[2])
	}
}

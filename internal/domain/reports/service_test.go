package reports

import (
	"context"
	"testing"
	"time"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/core"
)

type fakeRegistry struct {
	employees   []core.Employee
	client      core.Client
	assignments []core.Assignment
	activities  []core.ActivityLog
	lastFilter  core.ActivityFilter
}

func (f *fakeRegistry) Counts(context.Context) (core.Counts, error) {
	return core.Counts{Employees: len(f.employees), ActiveEmployees: len(f.employees)}, nil
}

func (f *fakeRegistry) ListEmployees(_ context.Context, status string) ([]core.Employee, error) {
	var out []core.Employee
	for _, e := range f.employees {
		if status == "" || e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRegistry) GetEmployee(_ context.Context, employeeID string) (core.Employee, error) {
	for _, e := range f.employees {
		if e.ID == employeeID {
			return e, nil
		}
	}
	return core.Employee{}, core.ErrNotFound
}

func (f *fakeRegistry) GetClientByUserID(_ context.Context, userID string) (core.Client, error) {
	if f.client.UserID != userID {
		return core.Client{}, core.ErrNotFound
	}
	return f.client, nil
}

func (f *fakeRegistry) ListAssignments(_ context.Context, filter core.AssignmentFilter) ([]core.Assignment, error) {
	var out []core.Assignment
	for _, a := range f.assignments {
		if a.ClientID == filter.ClientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRegistry) ListActivities(_ context.Context, filter core.ActivityFilter) ([]core.ActivityLog, error) {
	f.lastFilter = filter
	var out []core.ActivityLog
	for _, a := range f.activities {
		if filter.EmployeeID != "" && a.EmployeeID != filter.EmployeeID {
			continue
		}
		if a.CreatedAt.Before(filter.From) || a.CreatedAt.After(filter.To) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type fakeAttendance struct {
	today   time.Time
	loc     *time.Location
	records []attendance.Record
}

func (f *fakeAttendance) Today() time.Time         { return f.today }
func (f *fakeAttendance) Location() *time.Location { return f.loc }

func (f *fakeAttendance) Summary(_ context.Context, day time.Time) (attendance.DaySummary, []attendance.Record, error) {
	return attendance.Summarize(day, 3, f.records), f.records, nil
}

func (f *fakeAttendance) ForClient(_ context.Context, _ string, _ time.Time) ([]attendance.Record, error) {
	return f.records[:1], nil
}

func (f *fakeAttendance) History(_ context.Context, employeeID string, _, _ time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, r := range f.records {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func newFixture(t *testing.T) (*Service, *fakeRegistry) {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	today := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	registry := &fakeRegistry{
		employees: []core.Employee{
			{ID: "e1", Name: "Budi", Status: core.EmployeeStatusActive},
			{ID: "e2", Name: "Sari", Status: core.EmployeeStatusActive},
			{ID: "e3", Name: "Rudi", Status: core.EmployeeStatusStandby},
		},
		client:      core.Client{ID: "c1", UserID: "u-client", Name: "PT Maju"},
		assignments: []core.Assignment{{ID: "a1", EmployeeID: "e1", ClientID: "c1"}},
		activities: []core.ActivityLog{
			{ID: "l1", EmployeeID: "e1", Description: "Patroli", CreatedAt: time.Date(2024, 3, 4, 8, 30, 0, 0, loc)},
			{ID: "l2", EmployeeID: "e1", Description: "Kemarin", CreatedAt: time.Date(2024, 3, 3, 23, 0, 0, 0, loc)},
			{ID: "l3", EmployeeID: "e2", Description: "Late night", CreatedAt: time.Date(2024, 3, 4, 23, 59, 0, 0, loc)},
		},
	}
	checkIn := time.Date(2024, 3, 4, 8, 0, 0, 0, loc)
	att := &fakeAttendance{
		today: today,
		loc:   loc,
		records: []attendance.Record{
			{EmployeeID: "e1", Date: today, Status: attendance.StatusPresent, CheckIn: &checkIn},
			{EmployeeID: "e2", Date: today, Status: attendance.StatusSick},
		},
	}
	return NewService(registry, att), registry
}

func TestHRDashboard(t *testing.T) {
	svc, _ := newFixture(t)
	dash, err := svc.HRDashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(dash.ActiveEmployees) != 2 {
		t.Fatalf("expected 2 active employees, got %d", len(dash.ActiveEmployees))
	}
	if dash.Attendance.Present != 1 || dash.Attendance.Sick != 1 || dash.Attendance.Absent != 1 {
		t.Fatalf("unexpected summary %+v", dash.Attendance)
	}
}

func TestOperationGroupsByEmployee(t *testing.T) {
	svc, _ := newFixture(t)
	board, err := svc.Operation(context.Background())
	if err != nil {
		t.Fatalf("operation: %v", err)
	}
	if len(board.Rows) != 2 {
		t.Fatalf("expected rows for active employees only, got %d", len(board.Rows))
	}
	for _, row := range board.Rows {
		switch row.Employee.ID {
		case "e1":
			if row.Attendance == nil || row.Attendance.Status != attendance.StatusPresent {
				t.Fatalf("expected e1 present, got %+v", row.Attendance)
			}
			if len(row.Activities) != 1 || row.Activities[0].ID != "l1" {
				t.Fatalf("expected only today's activity for e1, got %+v", row.Activities)
			}
		case "e2":
			if len(row.Activities) != 1 || row.Activities[0].ID != "l3" {
				t.Fatalf("expected late-night activity counted for today, got %+v", row.Activities)
			}
		}
	}
}

func TestEmployeeHistoryDefaultsRange(t *testing.T) {
	svc, registry := newFixture(t)
	history, err := svc.EmployeeHistory(context.Background(), "e1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !history.To.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)) || !history.From.Equal(time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected range %v..%v", history.From, history.To)
	}
	if len(history.Attendance) != 1 || len(history.Activities) != 2 {
		t.Fatalf("unexpected history %+v", history)
	}
	if registry.lastFilter.EmployeeID != "e1" {
		t.Fatalf("expected activity filter scoped to employee, got %+v", registry.lastFilter)
	}

	if _, err := svc.EmployeeHistory(context.Background(), "missing", time.Time{}, time.Time{}); err != core.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClientDashboard(t *testing.T) {
	svc, _ := newFixture(t)
	dash, err := svc.ClientDashboard(context.Background(), "u-client")
	if err != nil {
		t.Fatalf("client dashboard: %v", err)
	}
	if dash.Client.ID != "c1" || len(dash.Assignments) != 1 || len(dash.Attendance) != 1 {
		t.Fatalf("unexpected dashboard %+v", dash)
	}
	if _, err := svc.ClientDashboard(context.Background(), "u-other"); err != core.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

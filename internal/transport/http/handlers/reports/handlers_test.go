package reportshandler

import (
	"testing"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/core"
)

func TestClientRows(t *testing.T) {
	assignments := []core.Assignment{
		{ID: "a1", EmployeeID: "e1", EmployeeName: "Ani"},
		{ID: "a2", EmployeeID: "e2", EmployeeName: "Budi"},
	}
	records := []attendance.Record{
		{ID: "r1", EmployeeID: "e1", Status: attendance.StatusPresent},
		{ID: "r9", EmployeeID: "e9", Status: attendance.StatusPresent},
	}

	rows := clientRows(assignments, records)
	if len(rows) != 2 {
		t.Fatalf("expected one row per assignment, got %d", len(rows))
	}
	if rows[0].Record == nil || rows[0].Record.ID != "r1" {
		t.Fatalf("expected Ani's record, got %+v", rows[0].Record)
	}
	if rows[1].Record != nil {
		t.Fatal("records of employees placed elsewhere must not leak into the client view")
	}
}

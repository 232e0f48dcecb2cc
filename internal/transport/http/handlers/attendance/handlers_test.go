package attendancehandler

import (
	"strings"
	"testing"
	"time"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/core"
	"hrportal/internal/transport/http/web"
)

func TestClockFlash(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	in := time.Date(2024, 3, 4, 1, 0, 0, 0, time.UTC)
	out := time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		result  attendance.Result
		kind    web.FlashKind
		message string
	}{
		{
			name:    "clocked in",
			result:  attendance.Result{Outcome: attendance.OutcomeClockedIn, Record: attendance.Record{CheckIn: &in}},
			kind:    web.FlashSuccess,
			message: "Clocked in at 08:00.",
		},
		{
			name:    "repeat clock in keeps first time",
			result:  attendance.Result{Outcome: attendance.OutcomeAlreadyClockedIn, Record: attendance.Record{CheckIn: &in}},
			kind:    web.FlashWarning,
			message: "You already clocked in today at 08:00.",
		},
		{
			name:    "clocked out",
			result:  attendance.Result{Outcome: attendance.OutcomeClockedOut, Record: attendance.Record{CheckIn: &in, CheckOut: &out}},
			kind:    web.FlashSuccess,
			message: "Clocked out at 17:30.",
		},
		{
			name:    "clock out without clock in",
			result:  attendance.Result{Outcome: attendance.OutcomeClockedOut, Record: attendance.Record{CheckOut: &out}},
			kind:    web.FlashWarning,
			message: "without a clock-in",
		},
		{
			name:    "repeat clock out",
			result:  attendance.Result{Outcome: attendance.OutcomeAlreadyClockedOut, Record: attendance.Record{CheckIn: &in, CheckOut: &out}},
			kind:    web.FlashWarning,
			message: "You already clocked out today at 17:30.",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			flash := ClockFlash(tc.result, jakarta)
			if flash.Kind != tc.kind {
				t.Fatalf("expected %s flash, got %s", tc.kind, flash.Kind)
			}
			if !strings.Contains(flash.Message, tc.message) {
				t.Fatalf("expected %q in %q", tc.message, flash.Message)
			}
		})
	}
}

func TestJoinRecords(t *testing.T) {
	employees := []core.Employee{{ID: "e1", Name: "Ani"}, {ID: "e2", Name: "Budi"}}
	records := []attendance.Record{{ID: "r2", EmployeeID: "e2", Status: attendance.StatusSick}}

	rows := joinRecords(employees, records)
	if len(rows) != 2 {
		t.Fatalf("expected a row per employee, got %d", len(rows))
	}
	if rows[0].Record != nil {
		t.Fatal("expected no record for Ani")
	}
	if rows[1].Record == nil || rows[1].Record.Status != attendance.StatusSick {
		t.Fatalf("expected Budi's sick record, got %+v", rows[1].Record)
	}
}

package corehandler

import (
	"fmt"
	"net/url"
	"testing"

	"hrportal/internal/domain/core"
	"hrportal/internal/transport/http/shared"
)

func TestProblemMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "field", err: &core.ValidationError{Field: "join_date", Reason: "is required"}, want: "Join date is required."},
		{name: "no field", err: &core.ValidationError{Reason: "nothing to save"}, want: "nothing to save."},
		{name: "username", err: fmt.Errorf("create: %w", core.ErrUsernameTaken), want: "That username is already taken. Use a different name."},
		{name: "active assignment", err: core.ErrActiveAssignmentExists, want: "This employee already has an active assignment."},
		{name: "unknown client", err: core.ErrUnknownClient, want: "The selected client no longer exists."},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := ProblemMessage(tc.err); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestReadEmployee(t *testing.T) {
	form := shared.NewForm(url.Values{
		"name":       {" Budi Santoso "},
		"position":   {"Security"},
		"join_date":  {"2024-03-01"},
		"status":     {"Standby"},
		"client_id":  {"c-1"},
		"location":   {"Gate A"},
		"shift":      {"night"},
		"end_date":   {""},
		"unexpected": {"ignored"},
	})
	in, assignment := readEmployee(form)
	if form.HasIssues() {
		t.Fatalf("unexpected issues: %s", form.Message())
	}
	if in.Name != "Budi Santoso" || in.Status != core.EmployeeStatusStandby || in.EndDate != nil {
		t.Fatalf("unexpected input: %+v", in)
	}
	if in.JoinDate.Format("2006-01-02") != "2024-03-01" {
		t.Fatalf("unexpected join date %v", in.JoinDate)
	}
	if assignment == nil || assignment.ClientID != "c-1" || assignment.Location != "Gate A" || assignment.Shift != "night" {
		t.Fatalf("unexpected assignment: %+v", assignment)
	}

	noClient := shared.NewForm(url.Values{"name": {"Ani"}, "join_date": {"2024-03-01"}})
	if _, assignment := readEmployee(noClient); assignment != nil {
		t.Fatal("expected no assignment without a client")
	}
}

func TestReadEmployeeIssues(t *testing.T) {
	form := shared.NewForm(url.Values{
		"join_date": {"01/03/2024"},
		"end_date":  {"2023-01-01"},
		"status":    {"retired"},
	})
	readEmployee(form)
	fields := map[string]bool{}
	for _, issue := range form.Issues() {
		fields[issue.Field] = true
	}
	for _, want := range []string{"name", "join_date", "status"} {
		if !fields[want] {
			t.Fatalf("expected an issue for %s, got %v", want, form.Issues())
		}
	}
}

func TestReadPersonal(t *testing.T) {
	form := shared.NewForm(url.Values{
		"nik":          {"3201000011112222"},
		"full_name":    {"Budi Santoso"},
		"birth_date":   {"1995-05-17"},
		"blood_type":   {"ab"},
		"height_cm":    {"170"},
		"weight_kg":    {"heavy"},
		"num_children": {""},
	})
	d := readPersonal(form, "e-1")
	if d.EmployeeID != "e-1" || d.NIK != "3201000011112222" || d.BloodType != "AB" {
		t.Fatalf("unexpected detail: %+v", d)
	}
	if d.BirthDate == nil || d.BirthDate.Year() != 1995 {
		t.Fatalf("unexpected birth date %v", d.BirthDate)
	}
	if d.HeightCm == nil || *d.HeightCm != 170 {
		t.Fatalf("unexpected height %v", d.HeightCm)
	}
	if d.WeightKg != nil || d.NumChildren != nil {
		t.Fatal("expected unparseable and blank numbers to stay empty")
	}
	issues := form.Issues()
	if len(issues) != 1 || issues[0].Field != "weight_kg" {
		t.Fatalf("expected one weight issue, got %v", issues)
	}
}

func TestProfilePhoto(t *testing.T) {
	emp := core.Employee{Photo: "photos/form.jpg"}
	if got := profilePhoto(emp, nil); got != "photos/form.jpg" {
		t.Fatalf("expected form photo, got %q", got)
	}
	docs := []core.Document{
		{DocumentType: core.DocumentKTP, FilePath: "documents/ktp.pdf"},
		{DocumentType: core.DocumentPhoto, FilePath: "documents/latest.jpg"},
		{DocumentType: core.DocumentPhoto, FilePath: "documents/older.jpg"},
	}
	if got := profilePhoto(emp, docs); got != "documents/latest.jpg" {
		t.Fatalf("expected latest photo document, got %q", got)
	}
}

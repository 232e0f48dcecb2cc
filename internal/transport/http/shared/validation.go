package shared

import (
	"sort"
	"strings"
	"time"
)

// Issue is one problem with one submitted field.
type Issue struct {
	Field  string
	Reason string
}

// Validator collects every problem with a submission so the user sees all
// of them in one flash.
type Validator struct {
	issues []Issue
}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Add(field, reason string) {
	reason = strings.TrimSpace(reason)
	if v == nil || reason == "" {
		return
	}
	v.issues = append(v.issues, Issue{Field: strings.TrimSpace(field), Reason: reason})
}

// DateOrder flags a range whose end precedes its start. Blank bounds pass.
func (v *Validator) DateOrder(startField string, start time.Time, endField string, end time.Time) {
	if start.IsZero() || end.IsZero() || !end.Before(start) {
		return
	}
	v.Add(startField, "must be on or before "+endField)
	v.Add(endField, "must be on or after "+startField)
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.issues) > 0
}

// Issues returns the problems ordered by field name.
func (v *Validator) Issues() []Issue {
	if !v.HasIssues() {
		return nil
	}
	out := append([]Issue(nil), v.issues...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Field == out[j].Field {
			return out[i].Reason < out[j].Reason
		}
		return out[i].Field < out[j].Field
	})
	return out
}

// Message joins the issues into one line for a flash message.
func (v *Validator) Message() string {
	issues := v.Issues()
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		label := strings.ReplaceAll(issue.Field, "_", " ")
		if label == "" {
			parts = append(parts, issue.Reason)
			continue
		}
		parts = append(parts, label+" "+issue.Reason)
	}
	return strings.Join(parts, "; ")
}

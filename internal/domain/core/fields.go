package core

import (
	"strings"

	"hrportal/internal/domain/auth"
)

// RedactPersonalDetail trims identity numbers for viewers outside HR.
// The employee keeps the last four digits of their own numbers.
func RedactPersonalDetail(detail *PersonalDetail, viewer auth.Identity, isSelf bool) {
	if detail == nil || viewer.Role.Privileged() {
		return
	}
	if isSelf {
		detail.NIK = MaskDigits(detail.NIK)
		detail.BPJSEmployment = MaskDigits(detail.BPJSEmployment)
		detail.BPJSHealth = MaskDigits(detail.BPJSHealth)
		return
	}
	*detail = PersonalDetail{EmployeeID: detail.EmployeeID, FullName: detail.FullName, Nickname: detail.Nickname}
}

func MaskDigits(value string) string {
	value = strings.TrimSpace(value)
	if len(value) <= 4 {
		return value
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}

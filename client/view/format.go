package view

import (
	"strconv"
	"time"

	"contractdesk/client"
)

// Status is the display state of a contract.
type Status string

const (
	StatusValid      Status = "valid"
	StatusExpired    Status = "expired"
	StatusTerminated Status = "terminated"
)

// ContractStatus classifies a contract for display. Terminated wins over
// everything; otherwise a passed end date means expired.
func ContractStatus(c client.Contract, now time.Time) Status {
	if c.IsTerminated {
		return StatusTerminated
	}
	if c.ValidUntil != nil && !c.ValidUntil.After(now) {
		return StatusExpired
	}
	return StatusValid
}

// FormatDate renders an optional date for display.
func FormatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02.01.2006")
}

// FormatDateTime renders an optional timestamp for display.
func FormatDateTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02.01.2006 15:04")
}

// FormatMonths renders an optional month count.
func FormatMonths(months *int) string {
	if months == nil {
		return "-"
	}
	if *months == 1 {
		return "1 month"
	}
	return strconv.Itoa(*months) + " months"
}

// ExpiringEmptyHint explains an empty expiring-contracts report: either
// nothing is due, or the cancellation dates were never calculated.
const ExpiringEmptyHint = "No contracts with an upcoming cancellation deadline. Have the cancellation dates been calculated yet?"

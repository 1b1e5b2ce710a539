package contract

import "time"

// cancellationSchedule derives the next possible cancellation point for a
// periodic contract and the deadline for giving notice.
//
// The contract renews in periods of termMonths starting at validFrom. The
// first candidate is the earliest period boundary at or after the minimum
// term; from there, boundaries are skipped until giving notice
// (noticePeriod months before the boundary) is still possible today.
//
// Returns ok=false when the inputs cannot produce a schedule
// (termMonths <= 0 guards an infinite loop).
func cancellationSchedule(validFrom time.Time, noticePeriod, termMonths int, minimumTerm, today time.Time) (cancellation, action time.Time, ok bool) {
	if termMonths <= 0 {
		return time.Time{}, time.Time{}, false
	}

	boundary := validFrom
	for boundary.Before(minimumTerm) {
		boundary = boundary.AddDate(0, termMonths, 0)
	}

	for boundary.AddDate(0, -noticePeriod, 0).Before(today) {
		boundary = boundary.AddDate(0, termMonths, 0)
	}

	return boundary, boundary.AddDate(0, -noticePeriod, 0), true
}

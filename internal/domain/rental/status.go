package rental

import "strings"

// ObligationStatus is the stored payment state of an obligation.
// The stored value is authoritative; lateness is derived separately.
type ObligationStatus string

const (
	StatusPending ObligationStatus = "pending"
	StatusPaid    ObligationStatus = "paid"
	StatusOverdue ObligationStatus = "overdue"
)

// AllStatuses lists every accepted status
func AllStatuses() []ObligationStatus {
	return []ObligationStatus{StatusPending, StatusPaid, StatusOverdue}
}

// IsValid reports whether s is one of the accepted statuses
func (s ObligationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

func (s ObligationStatus) String() string {
	return string(s)
}

// ParseStatus converts user input to a status. Matching ignores case and surrounding space.
func ParseStatus(raw string) (ObligationStatus, error) {
	s := ObligationStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

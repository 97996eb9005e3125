package domain

import "time"

// Session is a user's time-tracking record within one organization.
// A row exists from the first clock-in onward and is never deleted.
type Session struct {
	OrgID         string
	UserID        string
	AccumulatedMs int64      // total closed time ever recorded, never negative
	OpenSince     *time.Time // nil when no session is open
}

// Open reports whether the session is currently open.
func (s *Session) Open() bool {
	return s != nil && s.OpenSince != nil
}

// TotalMs returns the live total at now: accumulated time plus the elapsed
// portion of an open session. Does not mutate the session.
func (s *Session) TotalMs(now time.Time) int64 {
	if s == nil {
		return 0
	}
	total := s.AccumulatedMs
	if s.OpenSince != nil {
		total += now.Sub(*s.OpenSince).Milliseconds()
	}
	return total
}

package rental

import (
	"time"

	"github.com/rentmgr/backend/internal/domain/rental"
)

// Clock returns the current instant. Tests pin it.
type Clock func() time.Time

// calendar resolves "today" and "this month" in the business timezone
type calendar struct {
	now Clock
	loc *time.Location
}

func newCalendar(loc *time.Location) calendar {
	if loc == nil {
		loc = time.UTC
	}
	return calendar{now: time.Now, loc: loc}
}

func (c calendar) today() time.Time {
	return rental.Today(c.now(), c.loc)
}

func (c calendar) currentPeriod() time.Time {
	return rental.CurrentPeriod(c.now(), c.loc)
}

package clock

import (
	"time"

	"auction-management-api/internal/entity"
)

// Clock supplies the current time to the service layer. Injecting it keeps
// every lifecycle decision a pure function of its inputs: callers snapshot
// Now() once per logical evaluation and pass the same instant through
// validation and persistence.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// New returns a Clock backed by the system wall clock in UTC.
func New() Clock {
	return realClock{}
}

// DeriveStatus computes the effective lifecycle status of an auction at the
// given instant. Terminal states stick: a CANCELLED or ENDED auction never
// reports SCHEDULED or LIVE again, regardless of the stored timestamps, so
// the result is monotonic in now.
func DeriveStatus(a *entity.Auction, now time.Time) entity.AuctionStatus {
	switch a.Status {
	case entity.StatusCancelled:
		return entity.StatusCancelled
	case entity.StatusEnded:
		return entity.StatusEnded
	}
	if now.Before(a.StartTime) {
		return entity.StatusScheduled
	}
	if now.Before(a.EndTime) {
		return entity.StatusLive
	}
	return entity.StatusEnded
}

// Remaining returns the time left until the auction's scheduled end, floored
// at zero once the auction has ended.
func Remaining(a *entity.Auction, now time.Time) time.Duration {
	switch DeriveStatus(a, now) {
	case entity.StatusEnded, entity.StatusCancelled:
		return 0
	}
	d := a.EndTime.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

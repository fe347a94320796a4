package timezone

import "time"

const DefaultTimezone = "America/Sao_Paulo"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location falls back to DefaultTimezone, then UTC when the tz database
// is not available.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// Clock is injected into use cases so tests can move time.
type Clock func() time.Time

func SystemClock(tz string) Clock {
	return func() time.Time {
		return NowIn(tz)
	}
}

func FixedClock(t time.Time) Clock {
	return func() time.Time {
		return t
	}
}

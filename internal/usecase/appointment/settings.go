package appointment

import (
	"time"

	"github.com/BruksfildServices01/seucuidado/internal/timezone"
)

// Settings are the scheduling parameters shared by the use cases.
type Settings struct {
	Location   *time.Location
	MinAdvance time.Duration
	Now        timezone.Clock
}

func (s Settings) now() time.Time {
	if s.Now == nil {
		return time.Now().In(s.loc())
	}
	return s.Now().In(s.loc())
}

func (s Settings) loc() *time.Location {
	if s.Location == nil {
		return timezone.Location(timezone.DefaultTimezone)
	}
	return s.Location
}

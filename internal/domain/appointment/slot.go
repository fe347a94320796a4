package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/seucuidado/internal/httperr"
)

// ResolveSlot turns the booking form input into a timestamp in loc.
// Without a date the next occurrence of HH:mm is used: today when still
// ahead of now, tomorrow otherwise.
func ResolveSlot(date, slot string, now time.Time, loc *time.Location, minAdvance time.Duration) (time.Time, error) {
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return time.Time{}, httperr.ErrBusiness("missing_slot")
	}

	hm, err := time.Parse("15:04", slot)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_slot")
	}

	now = now.In(loc)

	var at time.Time
	if date = strings.TrimSpace(date); date != "" {
		at, err = time.ParseInLocation("2006-01-02 15:04", date+" "+slot, loc)
		if err != nil {
			return time.Time{}, httperr.ErrBusiness("invalid_slot")
		}
	} else {
		at = time.Date(now.Year(), now.Month(), now.Day(), hm.Hour(), hm.Minute(), 0, 0, loc)
		if !at.After(now) {
			at = at.AddDate(0, 0, 1)
		}
	}

	if !at.After(now.Add(minAdvance)) {
		return time.Time{}, httperr.ErrBusiness("slot_in_past")
	}

	return at, nil
}

package domain

import "time"

// LocalSlot an instant resolved to the therapist's scheduling calendar
type LocalSlot struct {
	Date    string // YYYY-MM-DD
	Time    string // HH:MM
	Weekday int    // 0 = Sunday .. 6 = Saturday
}

// ResolveLocalSlot converts an instant into date, time of day and weekday in loc.
// All calendar matching goes through this function.
func ResolveLocalSlot(instant time.Time, loc *time.Location) LocalSlot {
	if loc == nil {
		loc = time.UTC
	}
	local := instant.In(loc)
	return LocalSlot{
		Date:    local.Format(DateFormat),
		Time:    local.Format(TimeFormat),
		Weekday: int(local.Weekday()),
	}
}

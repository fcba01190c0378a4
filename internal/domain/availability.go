package domain

import (
	"strings"
	"time"
)

// ScheduleKind which calendar representation a slot belongs to
type ScheduleKind string

const (
	ScheduleKindOverride  ScheduleKind = "special_date"
	ScheduleKindRecurring ScheduleKind = "weekly"
)

// TimeSlot a single bookable interval
type TimeSlot struct {
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime,omitempty"`
	IsAvailable bool   `json:"isAvailable"`
	IsBooked    bool   `json:"isBooked"`
}

// IsOpen returns true if the slot can still be booked
func (s *TimeSlot) IsOpen() bool {
	return s.IsAvailable && !s.IsBooked
}

func (s *TimeSlot) book() {
	s.IsAvailable = false
	s.IsBooked = true
}

// SpecialDate date-specific override of the weekly schedule
type SpecialDate struct {
	Date  string     `json:"date"` // YYYY-MM-DD
	Slots []TimeSlot `json:"slots"`
}

// WeeklyDay recurring slots for one day of the week
type WeeklyDay struct {
	DayOfWeek int        `json:"dayOfWeek"` // 0 = Sunday .. 6 = Saturday
	Slots     []TimeSlot `json:"slots"`
}

// TherapistAvailability therapist calendar with two independent representations
type TherapistAvailability struct {
	TherapistID    string
	SpecialDates   []SpecialDate
	WeeklySchedule []WeeklyDay
	UpdatedAt      time.Time
}

// SlotMatch a slot that matched a local date/time
type SlotMatch struct {
	Kind ScheduleKind
	Slot TimeSlot
}

// BookResult which representations had a slot flipped to booked
type BookResult struct {
	Flipped []ScheduleKind
}

// Any returns true if at least one slot was flipped
func (r BookResult) Any() bool {
	return len(r.Flipped) > 0
}

// Has returns true if a slot of the given kind was flipped
func (r BookResult) Has(kind ScheduleKind) bool {
	for _, k := range r.Flipped {
		if k == kind {
			return true
		}
	}
	return false
}

// BookSlot marks every slot matching ls as booked. Special dates and the weekly
// schedule are both probed; one match never short-circuits the other.
func (a *TherapistAvailability) BookSlot(ls LocalSlot) BookResult {
	var result BookResult

	if slot := a.specialDateSlot(ls); slot != nil {
		slot.book()
		result.Flipped = append(result.Flipped, ScheduleKindOverride)
	}

	if slot := a.weeklySlot(ls); slot != nil {
		slot.book()
		result.Flipped = append(result.Flipped, ScheduleKindRecurring)
	}

	return result
}

// Matches returns copies of all slots matching ls, override first
func (a *TherapistAvailability) Matches(ls LocalSlot) []SlotMatch {
	matches := make([]SlotMatch, 0, 2)
	if slot := a.specialDateSlot(ls); slot != nil {
		matches = append(matches, SlotMatch{Kind: ScheduleKindOverride, Slot: *slot})
	}
	if slot := a.weeklySlot(ls); slot != nil {
		matches = append(matches, SlotMatch{Kind: ScheduleKindRecurring, Slot: *slot})
	}
	return matches
}

func (a *TherapistAvailability) specialDateSlot(ls LocalSlot) *TimeSlot {
	for i := range a.SpecialDates {
		if a.SpecialDates[i].Date != ls.Date {
			continue
		}
		return findSlot(a.SpecialDates[i].Slots, ls.Time)
	}
	return nil
}

func (a *TherapistAvailability) weeklySlot(ls LocalSlot) *TimeSlot {
	for i := range a.WeeklySchedule {
		if a.WeeklySchedule[i].DayOfWeek != ls.Weekday {
			continue
		}
		return findSlot(a.WeeklySchedule[i].Slots, ls.Time)
	}
	return nil
}

func findSlot(slots []TimeSlot, clock string) *TimeSlot {
	for i := range slots {
		if normalizeClock(slots[i].StartTime) == clock {
			return &slots[i]
		}
	}
	return nil
}

// normalizeClock приводит "9:00" и "09:00:00" к виду "09:00"
func normalizeClock(value string) string {
	value = strings.TrimSpace(value)
	for _, layout := range []string{TimeFormat, "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(TimeFormat)
		}
	}
	return value
}

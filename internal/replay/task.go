package replay

import "main/internal/calendar"

// TaskPolicy is the recurrence rule of a scheduled task.
type TaskPolicy uint8

const (
	TaskUnrepeated TaskPolicy = iota
	TaskMinute
	TaskDaily
	TaskWeekly
	TaskMonthly
	TaskYearly
)

func (p TaskPolicy) String() string {
	switch p {
	case TaskUnrepeated:
		return "unrepeated"
	case TaskMinute:
		return "minute"
	case TaskDaily:
		return "daily"
	case TaskWeekly:
		return "weekly"
	case TaskMonthly:
		return "monthly"
	case TaskYearly:
		return "yearly"
	default:
		return "unknown"
	}
}

// Task is one scheduled firing slot. LastFired pins the most recent
// slot already dispatched so a slot never fires twice.
type Task struct {
	ID        uint32
	Date      uint32 // YYYYMMDD of the first firing
	Time      uint32 // HHMM of each firing
	Policy    TaskPolicy
	LastFired int64 // unix ms of the last fired slot, 0 if never
}

// NextDue returns the next eligible firing instant for a task, or 0
// when the task will never fire again. The schedule is anchored at
// Compose(t.Date, t.Time); after the first fire each policy advances
// one slot past LastFired. Pure in (policy, anchor, LastFired).
func NextDue(cal *calendar.Calendar, t Task, lastFired int64) int64 {
	if lastFired == 0 {
		return cal.Compose(t.Date, t.Time)
	}
	switch t.Policy {
	case TaskMinute:
		return cal.NextMinute(lastFired)
	case TaskDaily:
		return cal.Compose(cal.NextTradingDate(cal.Date(lastFired)), t.Time)
	case TaskWeekly:
		return cal.Compose(cal.Shift(cal.Date(lastFired), 0, 0, 7), t.Time)
	case TaskMonthly:
		return cal.Compose(cal.Shift(cal.Date(lastFired), 0, 1, 0), t.Time)
	case TaskYearly:
		return cal.Compose(cal.Shift(cal.Date(lastFired), 1, 0, 0), t.Time)
	default:
		return 0
	}
}

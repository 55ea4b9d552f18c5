package replay

import "github.com/yanun0323/errors"

// Mode selects the replay driver granularity. All modes share the
// same merge and dispatch core.
type Mode uint8

const (
	ModeUnknown Mode = iota
	ModeBars         // minute-stepped, ticks synthesized from bar closes
	ModeTasks        // task-stepped, market data only around task fires
	ModeTicks        // full tick/order-flow merge
)

var ErrUnknownMode = errors.New("unknown replay mode")

func (m Mode) String() string {
	switch m {
	case ModeBars:
		return "bars"
	case ModeTasks:
		return "tasks"
	case ModeTicks:
		return "ticks"
	default:
		return "unknown"
	}
}

// ParseMode maps a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "bars", "bar", "b":
		return ModeBars, nil
	case "tasks", "task", "t":
		return ModeTasks, nil
	case "ticks", "tick", "k":
		return ModeTicks, nil
	default:
		return ModeUnknown, errors.Wrap(ErrUnknownMode, s)
	}
}

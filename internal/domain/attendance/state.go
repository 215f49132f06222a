package attendance

import (
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/validator"
)

type Action string

const (
	ActionClockIn    Action = "clock-in"
	ActionBreakStart Action = "break-start"
	ActionBreakEnd   Action = "break-end"
	ActionClockOut   Action = "clock-out"
)

// transitions maps each action to its required current status and the resulting status.
var transitions = map[Action]struct {
	from Status
	to   Status
}{
	ActionClockIn:    {from: StatusOffDuty, to: StatusWorking},
	ActionBreakStart: {from: StatusWorking, to: StatusOnBreak},
	ActionBreakEnd:   {from: StatusOnBreak, to: StatusWorking},
	ActionClockOut:   {from: StatusWorking, to: StatusClockedOut},
}

var actionOrder = []Action{ActionClockIn, ActionBreakStart, ActionBreakEnd, ActionClockOut}

// ParseAction resolves an action name coming from a client.
func ParseAction(name string) (Action, error) {
	action := Action(name)
	if _, ok := transitions[action]; !ok {
		return "", validator.ValidationErrors{{
			Field:   "action",
			Message: "action must be one of: clock-in, break-start, break-end, clock-out",
		}}
	}
	return action, nil
}

// Transition returns the status reached by applying action in current.
// ok is false when the guard does not match; the caller must then leave the record untouched.
func Transition(current Status, action Action) (next Status, ok bool) {
	t, known := transitions[action]
	if !known || t.from != current {
		return current, false
	}
	return t.to, true
}

// AllowedActions lists the actions that change state from current.
func AllowedActions(current Status) []Action {
	allowed := []Action{}
	for _, action := range actionOrder {
		if _, ok := Transition(current, action); ok {
			allowed = append(allowed, action)
		}
	}
	return allowed
}

// StatusAfterBreakReplace is the status a record takes once its break set is
// replaced wholesale. Replacement sets hold closed breaks only, so a record
// that was on break returns to working.
func StatusAfterBreakReplace(current Status) Status {
	if current == StatusOnBreak {
		return StatusWorking
	}
	return current
}

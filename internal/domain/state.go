package domain

import "github.com/mrz1836/grove/internal/constants"

// CanTransition reports whether a task may move from one state to another.
//
// The rules are deliberately loose; there is no enforced forward-only
// order:
//
//   - same → same is never valid
//   - any state → NotStarted is always valid (reset)
//   - Done → anything except NotStarted is invalid
//   - every other transition is valid
func CanTransition(from, to constants.TaskState) bool {
	if !constants.IsValidTaskState(from) || !constants.IsValidTaskState(to) {
		return false
	}
	if from == to {
		return false
	}
	if to == constants.TaskStateNotStarted {
		return true
	}
	if from == constants.TaskStateDone {
		return false
	}
	return true
}

// NextState returns the state that follows s in the progression cycle:
// NotStarted → InProgress → Blocked → Done → NotStarted.
func NextState(s constants.TaskState) constants.TaskState {
	for i, state := range constants.AllTaskStates {
		if state == s {
			return constants.AllTaskStates[(i+1)%len(constants.AllTaskStates)]
		}
	}
	return constants.TaskStateNotStarted
}

package constants

// TaskState represents the state of a task in the grove state machine.
// State values are CamelCase because they double as the user-facing tokens
// in the YAML edit surface (state: NotStarted|InProgress|Blocked|Done).
type TaskState string

// Task state constants define the valid states a task can be in.
//
// The transition rules are intentionally loose; there is no enforced
// forward-only order:
//
//	same to same                    invalid
//	any to NotStarted               always valid (reset)
//	Done to anything but NotStarted invalid
//	everything else                 valid
const (
	// TaskStateNotStarted indicates a task has not been worked on yet.
	// This is the default state and is omitted from YAML exports.
	TaskStateNotStarted TaskState = "NotStarted"

	// TaskStateInProgress indicates a task is actively being worked on.
	TaskStateInProgress TaskState = "InProgress"

	// TaskStateBlocked indicates a task cannot proceed. An optional
	// free-form reason can be attached to the task.
	TaskStateBlocked TaskState = "Blocked"

	// TaskStateDone indicates a task is complete. Done tasks can only be
	// reset back to NotStarted.
	TaskStateDone TaskState = "Done"
)

// AllTaskStates lists every valid task state, in progression order.
// The order drives the progress-to-next-state cycle:
// NotStarted → InProgress → Blocked → Done → NotStarted.
//
//nolint:gochecknoglobals // Read-only lookup table
var AllTaskStates = []TaskState{
	TaskStateNotStarted,
	TaskStateInProgress,
	TaskStateBlocked,
	TaskStateDone,
}

// IsValidTaskState reports whether s is one of the known task states.
func IsValidTaskState(s TaskState) bool {
	switch s {
	case TaskStateNotStarted, TaskStateInProgress, TaskStateBlocked, TaskStateDone:
		return true
	default:
		return false
	}
}

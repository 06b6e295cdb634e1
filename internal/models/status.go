package models

import "strings"

// TaskStatus is one of the three canonical board states.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

// Board column keys, one per canonical status.
const (
	ColumnKeyTodo       = "todo"
	ColumnKeyInProgress = "inprogress"
	ColumnKeyDone       = "done"
)

// Statuses lists the canonical statuses in board order.
var Statuses = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

// statusSpellings holds the lowercased spellings accepted for each status.
var statusSpellings = map[TaskStatus][]string{
	TaskStatusTodo:       {"to do", "todo"},
	TaskStatusInProgress: {"in progress", "progress"},
	TaskStatusDone:       {"completed", "done"},
}

// NormalizeStatus maps any incoming spelling to a canonical status.
// Unknown and empty values become To Do.
func NormalizeStatus(raw string) TaskStatus {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, status := range Statuses {
		for _, spelling := range statusSpellings[status] {
			if key == spelling {
				return status
			}
		}
	}
	return TaskStatusTodo
}

// Spellings returns the lowercased spellings that normalize to s. To Do also
// absorbs every unknown value, which callers matching stored rows must handle.
func (s TaskStatus) Spellings() []string {
	return append([]string(nil), statusSpellings[s.Normalize()]...)
}

// Normalize returns the canonical form of s.
func (s TaskStatus) Normalize() TaskStatus {
	return NormalizeStatus(string(s))
}

// ColumnKey returns the board column key for the status.
func (s TaskStatus) ColumnKey() string {
	switch s.Normalize() {
	case TaskStatusInProgress:
		return ColumnKeyInProgress
	case TaskStatusDone:
		return ColumnKeyDone
	default:
		return ColumnKeyTodo
	}
}

// StatusForColumn maps a column key back to its status. Unknown keys map to To Do.
func StatusForColumn(key string) TaskStatus {
	switch key {
	case ColumnKeyInProgress:
		return TaskStatusInProgress
	case ColumnKeyDone:
		return TaskStatusDone
	default:
		return TaskStatusTodo
	}
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		input string
		want  TaskStatus
	}{
		{"To Do", TaskStatusTodo},
		{"todo", TaskStatusTodo},
		{"  TODO ", TaskStatusTodo},
		{"to do", TaskStatusTodo},
		{"In Progress", TaskStatusInProgress},
		{"progress", TaskStatusInProgress},
		{"IN PROGRESS\n", TaskStatusInProgress},
		{"Completed", TaskStatusDone},
		{"done", TaskStatusDone},
		{" Done", TaskStatusDone},
		{"", TaskStatusTodo},
		{"   ", TaskStatusTodo},
		{"blocked", TaskStatusTodo},
		{"in-progress", TaskStatusTodo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStatus(tt.input))
		})
	}
}

func TestNormalizeStatus_IdempotentAndTotal(t *testing.T) {
	inputs := []string{
		"", "x", "To Do", "todo", "In Progress", "progress", "completed", "DONE",
		"\tdone\t", "pending", "ToDo", "Done ", "in progress ", "🙂", "to  do",
	}

	for _, in := range inputs {
		once := NormalizeStatus(in)
		assert.Contains(t, Statuses, once, "input %q", in)
		assert.Equal(t, once, NormalizeStatus(string(once)), "input %q", in)
	}
}

func TestColumnKeyRoundTrip(t *testing.T) {
	for _, s := range Statuses {
		assert.Equal(t, s, StatusForColumn(s.ColumnKey()))
	}
	assert.Equal(t, ColumnKeyDone, TaskStatus("completed").ColumnKey())
	assert.Equal(t, TaskStatusTodo, StatusForColumn("backlog"))
}

func TestTaskStatus_Spellings(t *testing.T) {
	for _, status := range Statuses {
		spellings := status.Spellings()
		assert.NotEmpty(t, spellings)
		for _, spelling := range spellings {
			assert.Equal(t, status, NormalizeStatus(spelling), "spelling %q", spelling)
		}
	}
	assert.Equal(t, TaskStatusDone.Spellings(), TaskStatus("completed").Spellings())
}

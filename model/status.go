package model

// TaskStatus is the canonical lifecycle state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskPending, TaskInProgress, TaskCompleted}
}

func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// ProjectStatus is the canonical lifecycle state of a project. Kanban
// columns are board stages and never stored here.
type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "pending"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
)

func ProjectStatuses() []ProjectStatus {
	return []ProjectStatus{ProjectPending, ProjectInProgress, ProjectCompleted}
}

func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// Label is the column title shown for the status on the client.
func (s ProjectStatus) Label() string {
	switch s {
	case ProjectPending:
		return "To Do"
	case ProjectInProgress:
		return "In Progress"
	case ProjectCompleted:
		return "Done"
	}
	return string(s)
}

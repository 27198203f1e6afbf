package dto

type CreateTaskRequest struct {
	Name        string `json:"name" binding:"required" validate:"required,max=255"`
	Description string `json:"description"`
	ProjectID   uint   `json:"project_id" binding:"required" validate:"required"`
	AssigneeTo  *uint  `json:"assignee_to"`
	DueDate     *Date  `json:"due_date"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
}

type UpdateTaskRequest struct {
	Name        string `json:"name" binding:"required" validate:"required,max=255"`
	Description string `json:"description"`
	ProjectID   uint   `json:"project_id" binding:"required" validate:"required"`
	AssigneeTo  *uint  `json:"assignee_to"`
	DueDate     *Date  `json:"due_date"`
	Status      string `json:"status" binding:"required" validate:"required,oneof=pending in_progress completed"`
}

type AssignTaskRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// TaskFilter is shared by the task index and the board view.
type TaskFilter struct {
	Search string `form:"search" json:"search"`
	Status string `form:"status" json:"status"`
	Page   int    `form:"page" json:"page"`
}

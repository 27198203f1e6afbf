package dto

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required" validate:"required,max=255"`
	Description string `json:"description"`
	AssigneeID  *uint  `json:"assignee_id"`
	StartDate   *Date  `json:"start_date"`
	EndDate     *Date  `json:"end_date"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name" binding:"required" validate:"required,max=255"`
	Description string `json:"description"`
	AssigneeID  *uint  `json:"assignee_id"`
	StartDate   *Date  `json:"start_date"`
	EndDate     *Date  `json:"end_date"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

package dto

type CreateStageRequest struct {
	Name     string `json:"name" binding:"required" validate:"required,max=255"`
	Color    string `json:"color" validate:"omitempty,hexcolor"`
	Position *int   `json:"position" validate:"omitempty,min=0"`
}

type UpdateStageRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Color    *string `json:"color" validate:"omitempty,hexcolor"`
	Position *int    `json:"position" validate:"omitempty,min=0"`
}

type AssignBoardStageRequest struct {
	BoardStageID *uint `json:"board_stage_id"`
}

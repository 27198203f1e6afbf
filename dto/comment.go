package dto

type CreateCommentRequest struct {
	Body     string `json:"body" binding:"required" validate:"required,max=2000"`
	ParentID *uint  `json:"parent_id"`
	Mentions []uint `json:"mentions"`
}

type UpdateCommentRequest struct {
	Body string `json:"body" binding:"required" validate:"required,max=2000"`
}

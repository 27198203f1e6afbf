package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"projectflow/dto"
	"projectflow/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultStages seeds every new project and user board, in column order.
var DefaultStages = []string{"To Do", "In Progress", "Done"}

var stagePalette = []string{
	"#94A3B8", "#3B82F6", "#22C55E", "#F59E0B",
	"#EF4444", "#8B5CF6", "#EC4899", "#14B8A6",
}

func stageColor(position int) string {
	if position < 0 {
		position = -position
	}
	return stagePalette[position%len(stagePalette)]
}

func stageTypeFor(t model.OwnerType) model.StageType {
	if t == model.OwnerProject {
		return model.StageTypeProject
	}
	return model.StageTypeUser
}

// Workflow validates status transitions and keeps board stage ordering.
type Workflow struct {
	db  *gorm.DB
	log *zap.Logger

	mu     sync.Mutex
	scopes map[model.Owner]*sync.Mutex
}

func NewWorkflow(db *gorm.DB, log *zap.Logger) *Workflow {
	return &Workflow{db: db, log: log, scopes: make(map[model.Owner]*sync.Mutex)}
}

// scopeLock serializes position allocation within one board.
func (w *Workflow) scopeLock(owner model.Owner) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()
	l, ok := w.scopes[owner]
	if !ok {
		l = &sync.Mutex{}
		w.scopes[owner] = l
	}
	return l
}

func (w *Workflow) SetTaskStatus(ctx context.Context, taskID uint, status model.TaskStatus) (*model.Task, error) {
	if !status.Valid() {
		return nil, invalid("status", fmt.Sprintf("must be one of: %v", model.TaskStatuses()))
	}
	task, err := GetTaskData(ctx, w.db, taskID)
	if err != nil {
		return nil, err
	}
	if err := w.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", task.ID).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}
	task.Status = status
	return task, nil
}

func (w *Workflow) SetProjectStatus(ctx context.Context, projectID uint, status model.ProjectStatus) (*model.Project, error) {
	if !status.Valid() {
		return nil, invalid("status", fmt.Sprintf("must be one of: %v", model.ProjectStatuses()))
	}
	project, err := GetProjectData(ctx, w.db, projectID)
	if err != nil {
		return nil, err
	}
	if err := w.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", project.ID).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}
	project.Status = status
	return project, nil
}

// CreateDefaultStages inserts DefaultStages for owner inside tx. Either all
// stages are written or none.
func CreateDefaultStages(tx *gorm.DB, owner model.Owner) ([]model.BoardStage, error) {
	if owner.Type != model.OwnerProject && owner.Type != model.OwnerUser {
		return nil, fmt.Errorf("board stages cannot belong to %s", owner.Type)
	}
	stages := make([]model.BoardStage, 0, len(DefaultStages))
	for i, name := range DefaultStages {
		stages = append(stages, model.BoardStage{
			BoardableType: owner.Type,
			BoardableID:   owner.ID,
			Name:          name,
			Color:         stageColor(i),
			Position:      i,
			Type:          stageTypeFor(owner.Type),
		})
	}
	err := tx.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&stages).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create default stages: %w", err)
	}
	return stages, nil
}

func (w *Workflow) Stages(ctx context.Context, owner model.Owner) ([]model.BoardStage, error) {
	if err := requireOwner(ctx, w.db, owner); err != nil {
		return nil, err
	}
	var stages []model.BoardStage
	if err := QueryFor(ctx, w.db, owner, &stages); err != nil {
		return nil, fmt.Errorf("failed to fetch board stages: %w", err)
	}
	return stages, nil
}

// AddStage appends a stage to owner's board. Without an explicit position
// the stage goes after the current last column.
func (w *Workflow) AddStage(ctx context.Context, owner model.Owner, req dto.CreateStageRequest) (*model.BoardStage, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	lock := w.scopeLock(owner)
	lock.Lock()
	defer lock.Unlock()

	position := 0
	if req.Position != nil {
		position = *req.Position
	} else {
		var max sql.NullInt64
		err := w.db.WithContext(ctx).Model(&model.BoardStage{}).
			Where("boardable_type = ? AND boardable_id = ?", owner.Type, owner.ID).
			Select("MAX(position)").Row().Scan(&max)
		if err != nil {
			return nil, fmt.Errorf("failed to read stage positions: %w", err)
		}
		if max.Valid {
			position = int(max.Int64) + 1
		}
	}

	color := req.Color
	if color == "" {
		color = stageColor(position)
	}
	stage := &model.BoardStage{
		Name:     req.Name,
		Color:    color,
		Position: position,
		Type:     stageTypeFor(owner.Type),
	}
	if err := AttachTo(ctx, w.db, owner, stage); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create board stage: %w", err)
	}

	w.log.Debug("board stage added",
		zap.Stringer("owner", owner),
		zap.Uint("stage_id", stage.ID),
		zap.Int("position", stage.Position))
	return stage, nil
}

// findStage loads stageID and checks it sits on owner's board.
func (w *Workflow) findStage(ctx context.Context, owner model.Owner, stageID uint) (*model.BoardStage, error) {
	var stage model.BoardStage
	if err := w.db.WithContext(ctx).First(&stage, stageID).Error; err != nil {
		return nil, lookupErr("board stage", err)
	}
	if stage.BoardableType != owner.Type {
		return nil, ErrStageNotRemovable
	}
	if stage.BoardableID != owner.ID {
		return nil, notFound("board stage")
	}
	return &stage, nil
}

func (w *Workflow) UpdateStage(ctx context.Context, owner model.Owner, stageID uint, req dto.UpdateStageRequest) (*model.BoardStage, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	stage, err := w.findStage(ctx, owner, stageID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if len(updates) == 0 {
		return nil, invalid("body", "no valid fields to update")
	}

	if err := w.db.WithContext(ctx).Model(&model.BoardStage{}).Where("id = ?", stage.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update board stage: %w", err)
	}
	if req.Name != nil {
		stage.Name = *req.Name
	}
	if req.Color != nil {
		stage.Color = *req.Color
	}
	if req.Position != nil {
		stage.Position = *req.Position
	}
	return stage, nil
}

// DeleteStage detaches every project pointing at the stage, then removes
// it. Deleting a stage that is already gone reports ErrNotFound.
func (w *Workflow) DeleteStage(ctx context.Context, owner model.Owner, stageID uint) error {
	stage, err := w.findStage(ctx, owner, stageID)
	if err != nil {
		return err
	}

	err = w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Project{}).
			Where("board_stage_id = ?", stage.ID).
			Update("board_stage_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.BoardStage{}, stage.ID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete board stage: %w", err)
	}

	w.log.Debug("board stage deleted", zap.Stringer("owner", owner), zap.Uint("stage_id", stage.ID))
	return nil
}

// AssignBoardStage points a project at a stage, or clears it with nil.
// The canonical status is left alone.
func (w *Workflow) AssignBoardStage(ctx context.Context, projectID uint, stageID *uint) (*model.Project, error) {
	project, err := GetProjectData(ctx, w.db, projectID)
	if err != nil {
		return nil, err
	}

	var value interface{}
	if stageID != nil {
		var count int64
		if err := w.db.WithContext(ctx).Model(&model.BoardStage{}).Where("id = ?", *stageID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to verify board stage: %w", err)
		}
		if count == 0 {
			return nil, invalid("board_stage_id", "does not exist")
		}
		value = *stageID
	}

	if err := w.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", project.ID).Update("board_stage_id", value).Error; err != nil {
		return nil, fmt.Errorf("failed to update board stage: %w", err)
	}
	project.BoardStageID = stageID
	return project, nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"projectflow/dto"
	"projectflow/model"
	"projectflow/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProjectService struct {
	db       *gorm.DB
	workflow *Workflow
	store    storage.ObjectStorage
	log      *zap.Logger
}

func NewProjectService(db *gorm.DB, workflow *Workflow, store storage.ObjectStorage, log *zap.Logger) *ProjectService {
	return &ProjectService{db: db, workflow: workflow, store: store, log: log}
}

func orderedStages(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

func checkDates(start, end *dto.Date) error {
	if start.Ptr() != nil && end.Ptr() != nil && end.Before(start.Time) {
		return invalid("end_date", "must be on or after start_date")
	}
	return nil
}

func (s *ProjectService) checkAssignee(ctx context.Context, assignee *uint) error {
	if assignee == nil {
		return nil
	}
	_, ok, err := usersExist(ctx, s.db, *assignee)
	if err != nil {
		return fmt.Errorf("failed to verify assignee: %w", err)
	}
	if !ok {
		return invalid("assignee_id", "does not exist")
	}
	return nil
}

func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := s.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Creator").
		Order("created_at DESC, id DESC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Create inserts the project as pending and seeds its board with the
// default stages in the same transaction.
func (s *ProjectService) Create(ctx context.Context, p Principal, req dto.CreateProjectRequest) (*model.Project, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := checkDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, req.AssigneeID); err != nil {
		return nil, err
	}

	project := model.Project{
		Name:        req.Name,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		StartDate:   req.StartDate.Ptr(),
		EndDate:     req.EndDate.Ptr(),
		CreatedBy:   p.UserID,
		Status:      model.ProjectPending,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		stages, err := CreateDefaultStages(tx, model.ProjectOwner(project.ID))
		if err != nil {
			return err
		}
		project.Stages = stages
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.log.Info("project created", zap.Uint("project_id", project.ID), zap.Uint("user_id", p.UserID))
	return &project, nil
}

// Get loads a project with everything the detail view shows.
func (s *ProjectService) Get(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := s.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Creator").
		Preload("BoardStage").
		Preload("Stages", orderedStages).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Tasks.Assignee").
		Preload("Tasks.Comments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Tasks.Comments.User").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Attachments.User").
		First(&project, id).Error
	if err != nil {
		return nil, lookupErr("project", err)
	}
	return &project, nil
}

func (s *ProjectService) Update(ctx context.Context, id uint, req dto.UpdateProjectRequest) (*model.Project, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := checkDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, req.AssigneeID); err != nil {
		return nil, err
	}
	project, err := GetProjectData(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"assignee_id": req.AssigneeID,
		"start_date":  req.StartDate.Ptr(),
		"end_date":    req.EndDate.Ptr(),
	}
	if req.Status != "" {
		updates["status"] = model.ProjectStatus(req.Status)
	}
	if err := s.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return GetProjectData(ctx, s.db, project.ID)
}

// Delete removes the project, its tasks, every comment and attachment
// hanging off either, and its board stages, in one transaction. Stored
// files are removed after commit on a best-effort basis.
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	if _, err := GetProjectData(ctx, s.db, id); err != nil {
		return err
	}

	var paths []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint
		if err := tx.Model(&model.Task{}).Where("project_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		owners := []model.Owner{model.ProjectOwner(id)}
		for _, tid := range taskIDs {
			owners = append(owners, model.TaskOwner(tid))
		}

		var err error
		if paths, err = purgeOwned(tx, owners...); err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Delete(&model.Task{}, taskIDs).Error; err != nil {
				return err
			}
		}
		stageIDs := tx.Model(&model.BoardStage{}).Select("id").
			Where("boardable_type = ? AND boardable_id = ?", model.OwnerProject, id)
		if err := tx.Model(&model.Project{}).
			Where("board_stage_id IN (?)", stageIDs).
			Update("board_stage_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("boardable_type = ? AND boardable_id = ?", model.OwnerProject, id).
			Delete(&model.BoardStage{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Project{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound("project")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	removeObjects(ctx, s.store, s.log, paths)
	s.log.Info("project deleted", zap.Uint("project_id", id))
	return nil
}

// Timeline returns the project with its tasks ordered by due date.
func (s *ProjectService) Timeline(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := s.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return byDueDate(db) }).
		Preload("Tasks.Assignee").
		First(&project, id).Error
	if err != nil {
		return nil, lookupErr("project", err)
	}
	return &project, nil
}

// removeObjects drops stored files whose rows are already gone. Failures
// leave an orphaned object and are only logged.
func removeObjects(ctx context.Context, store storage.ObjectStorage, log *zap.Logger, paths []string) {
	if store == nil {
		return
	}
	for _, p := range paths {
		if _, err := store.Delete(ctx, p); err != nil {
			log.Warn("failed to delete stored object", zap.String("path", p), zap.Error(err))
		}
	}
}

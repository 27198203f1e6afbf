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

type TaskService struct {
	db       *gorm.DB
	workflow *Workflow
	store    storage.ObjectStorage
	notices  *taskNotices
	log      *zap.Logger
}

func NewTaskService(db *gorm.DB, workflow *Workflow, store storage.ObjectStorage, notifier Notifier, appURL string, log *zap.Logger) *TaskService {
	return &TaskService{
		db:       db,
		workflow: workflow,
		store:    store,
		notices:  &taskNotices{db: db, notifier: notifier, appURL: appURL, log: log},
		log:      log,
	}
}

// checkRefs validates the project and assignee a task points at.
func (s *TaskService) checkRefs(ctx context.Context, projectID uint, assignee *uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to verify project: %w", err)
	}
	if count == 0 {
		return invalid("project_id", "does not exist")
	}
	if assignee != nil {
		_, ok, err := usersExist(ctx, s.db, *assignee)
		if err != nil {
			return fmt.Errorf("failed to verify assignee: %w", err)
		}
		if !ok {
			return invalid("assignee_to", "does not exist")
		}
	}
	return nil
}

// Create inserts a task and, when it has an assignee, notifies them once
// the row is committed.
func (s *TaskService) Create(ctx context.Context, p Principal, req dto.CreateTaskRequest) (*model.Task, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, req.ProjectID, req.AssigneeTo); err != nil {
		return nil, err
	}

	status := model.TaskPending
	if req.Status != "" {
		status = model.TaskStatus(req.Status)
	}
	task := model.Task{
		Name:        req.Name,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		AssigneeTo:  req.AssigneeTo,
		DueDate:     req.DueDate.Ptr(),
		Status:      status,
		CreatedBy:   p.UserID,
	}
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.log.Info("task created", zap.Uint("task_id", task.ID), zap.Uint("project_id", task.ProjectID))
	s.notices.assigned(ctx, task, p)
	return &task, nil
}

func (s *TaskService) Get(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := s.db.WithContext(ctx).
		Preload("Project").
		Preload("Assignee").
		Preload("Creator").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Comments.User").
		Preload("Comments.Replies", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Comments.Replies.User").
		Preload("Comments.MentionedUsers").
		Preload("Comments.Attachments").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&task, id).Error
	if err != nil {
		return nil, lookupErr("task", err)
	}
	return &task, nil
}

// Update rewrites the task. A change of assignee to another user notifies
// the new assignee; clearing the assignee does not.
func (s *TaskService) Update(ctx context.Context, p Principal, id uint, req dto.UpdateTaskRequest) (*model.Task, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	task, err := GetTaskData(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, req.ProjectID, req.AssigneeTo); err != nil {
		return nil, err
	}

	reassigned := assigneeChanged(task.AssigneeTo, req.AssigneeTo)
	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"project_id":  req.ProjectID,
		"assignee_to": req.AssigneeTo,
		"due_date":    req.DueDate.Ptr(),
		"status":      model.TaskStatus(req.Status),
	}
	if err := s.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", task.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	task.Name = req.Name
	task.Description = req.Description
	task.ProjectID = req.ProjectID
	task.AssigneeTo = req.AssigneeTo
	task.DueDate = req.DueDate.Ptr()
	task.Status = model.TaskStatus(req.Status)

	if reassigned {
		s.notices.assigned(ctx, *task, p)
	}
	return task, nil
}

func assigneeChanged(before, after *uint) bool {
	if after == nil {
		return false
	}
	return before == nil || *before != *after
}

func (s *TaskService) SetStatus(ctx context.Context, id uint, status string) (*model.Task, error) {
	return s.workflow.SetTaskStatus(ctx, id, model.TaskStatus(status))
}

// Assign hands the task to userID. Re-assigning the current assignee is
// a no-op and sends nothing.
func (s *TaskService) Assign(ctx context.Context, p Principal, id, userID uint) (*model.Task, error) {
	task, err := GetTaskData(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	_, ok, err := usersExist(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify user: %w", err)
	}
	if !ok {
		return nil, invalid("user_id", "does not exist")
	}

	reassigned := assigneeChanged(task.AssigneeTo, &userID)
	if err := s.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", task.ID).Update("assignee_to", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}
	task.AssigneeTo = &userID

	if reassigned {
		s.notices.assigned(ctx, *task, p)
	}
	return task, nil
}

func (s *TaskService) Unassign(ctx context.Context, id uint) (*model.Task, error) {
	task, err := GetTaskData(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", task.ID).Update("assignee_to", nil).Error; err != nil {
		return nil, fmt.Errorf("failed to unassign task: %w", err)
	}
	task.AssigneeTo = nil
	return task, nil
}

// Delete removes the task with its comment threads and attachments.
func (s *TaskService) Delete(ctx context.Context, id uint) error {
	if _, err := GetTaskData(ctx, s.db, id); err != nil {
		return err
	}

	var paths []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if paths, err = purgeOwned(tx, model.TaskOwner(id)); err != nil {
			return err
		}
		res := tx.Delete(&model.Task{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound("task")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	removeObjects(ctx, s.store, s.log, paths)
	s.log.Info("task deleted", zap.Uint("task_id", id))
	return nil
}

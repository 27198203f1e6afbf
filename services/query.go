package services

import (
	"context"
	"fmt"
	"strings"

	"projectflow/dto"
	"projectflow/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaskPageSize is the fixed page size of the task index.
const TaskPageSize = 12

// statusAll disables status filtering.
const statusAll = "all"

type TaskPage struct {
	Data        []model.Task `json:"data"`
	CurrentPage int          `json:"current_page"`
	PerPage     int          `json:"per_page"`
	Total       int64        `json:"total"`
	LastPage    int          `json:"last_page"`
}

type CalendarView struct {
	Projects []model.Project `json:"projects"`
	Tasks    []model.Task    `json:"tasks"`
}

// QueryService assembles the read-only views.
type QueryService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewQueryService(db *gorm.DB, log *zap.Logger) *QueryService {
	return &QueryService{db: db, log: log}
}

// byDueDate orders tasks by due date with undated tasks last.
func byDueDate(db *gorm.DB) *gorm.DB {
	return db.Order("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date ASC, id ASC")
}

func statusFilter(status string) (model.TaskStatus, bool, error) {
	if status == "" || status == statusAll {
		return "", false, nil
	}
	s := model.TaskStatus(status)
	if !s.Valid() {
		return "", false, invalid("status", fmt.Sprintf("must be %q or one of: %v", statusAll, model.TaskStatuses()))
	}
	return s, true, nil
}

func likePattern(term string) string {
	return "%" + strings.TrimSpace(term) + "%"
}

// TaskIndex pages through tasks assigned to the principal, newest first.
// Search covers the task name and description and the project name.
func (q *QueryService) TaskIndex(ctx context.Context, p Principal, filter dto.TaskFilter) (*TaskPage, error) {
	status, byStatus, err := statusFilter(filter.Status)
	if err != nil {
		return nil, err
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	base := q.db.WithContext(ctx).Model(&model.Task{}).
		Joins("LEFT JOIN projects ON projects.id = tasks.project_id").
		Where("tasks.assignee_to = ?", p.UserID)
	if strings.TrimSpace(filter.Search) != "" {
		like := likePattern(filter.Search)
		base = base.Where("(tasks.name LIKE ? OR tasks.description LIKE ? OR projects.name LIKE ?)", like, like, like)
	}
	if byStatus {
		base = base.Where("tasks.status = ?", status)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	var tasks []model.Task
	err = base.Session(&gorm.Session{}).
		Select("tasks.*").
		Preload("Project").
		Preload("Assignee").
		Order("tasks.created_at DESC, tasks.id DESC").
		Limit(TaskPageSize).
		Offset((page - 1) * TaskPageSize).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	last := int((total + TaskPageSize - 1) / TaskPageSize)
	if last < 1 {
		last = 1
	}
	return &TaskPage{
		Data:        tasks,
		CurrentPage: page,
		PerPage:     TaskPageSize,
		Total:       total,
		LastPage:    last,
	}, nil
}

// TaskBoard lists tasks assigned to or created by the principal, soonest
// due first and undated last.
func (q *QueryService) TaskBoard(ctx context.Context, p Principal, filter dto.TaskFilter) ([]model.Task, error) {
	status, byStatus, err := statusFilter(filter.Status)
	if err != nil {
		return nil, err
	}

	db := q.db.WithContext(ctx).
		Where("(assignee_to = ? OR created_by = ?)", p.UserID, p.UserID)
	if byStatus {
		db = db.Where("status = ?", status)
	}
	if strings.TrimSpace(filter.Search) != "" {
		like := likePattern(filter.Search)
		db = db.Where("(name LIKE ? OR description LIKE ?)", like, like)
	}

	var tasks []model.Task
	if err := byDueDate(db).Preload("Project").Preload("Assignee").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load task board: %w", err)
	}
	return tasks, nil
}

func (q *QueryService) Calendar(ctx context.Context) (*CalendarView, error) {
	view := &CalendarView{}
	if err := q.db.WithContext(ctx).Order("id ASC").Find(&view.Projects).Error; err != nil {
		return nil, fmt.Errorf("failed to load calendar projects: %w", err)
	}
	if err := byDueDate(q.db.WithContext(ctx)).Find(&view.Tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load calendar tasks: %w", err)
	}
	return view, nil
}

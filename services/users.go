package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"projectflow/dto"
	"projectflow/model"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserSummary is a user row with the counts shown in the user list.
type UserSummary struct {
	model.User            `gorm:"embedded"`
	CreatedProjectsCount  int64 `json:"created_projects_count"`
	AssignedProjectsCount int64 `json:"assigned_projects_count"`
	TasksCount            int64 `json:"tasks_count"`
	CompletedTasksCount   int64 `json:"completed_tasks_count"`
}

// UserDetail is a user with the projects assigned to them and their tasks,
// newest first.
type UserDetail struct {
	model.User
	AssignedProjects []model.Project `json:"assigned_projects"`
	Tasks            []model.Task    `json:"tasks"`
}

type UserService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewUserService(db *gorm.DB, log *zap.Logger) *UserService {
	return &UserService{db: db, log: log}
}

// Signup creates the account and seeds the user's personal board.
func (s *UserService) Signup(ctx context.Context, req dto.SignupRequest) (*model.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, invalid("email", "has already been taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{Name: req.Name, Email: email, HashedPassword: string(hashed)}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		_, err := CreateDefaultStages(tx, model.UserOwner(user.ID))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user signed up", zap.Uint("user_id", user.ID))
	return &user, nil
}

// Signin checks the credentials. Unknown emails and wrong passwords both
// return ErrInvalidCredentials.
func (s *UserService) Signin(ctx context.Context, req dto.SigninRequest) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context) ([]UserSummary, error) {
	var users []UserSummary
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Select(`users.*,
			(SELECT COUNT(*) FROM projects WHERE projects.created_by = users.id) AS created_projects_count,
			(SELECT COUNT(*) FROM projects WHERE projects.assignee_id = users.id) AS assigned_projects_count,
			(SELECT COUNT(*) FROM tasks WHERE tasks.assignee_to = users.id) AS tasks_count,
			(SELECT COUNT(*) FROM tasks WHERE tasks.assignee_to = users.id AND tasks.status = ?) AS completed_tasks_count`,
			model.TaskCompleted).
		Order("users.id ASC").
		Scan(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Show(ctx context.Context, id uint) (*UserDetail, error) {
	user, err := GetUserData(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	detail := &UserDetail{User: *user}

	err = s.db.WithContext(ctx).Model(&model.Project{}).
		Select(`projects.*,
			(SELECT COUNT(*) FROM tasks WHERE tasks.project_id = projects.id) AS tasks_count,
			(SELECT COUNT(*) FROM tasks WHERE tasks.project_id = projects.id AND tasks.status = ?) AS completed_tasks_count`,
			model.TaskCompleted).
		Where("projects.assignee_id = ?", id).
		Order("projects.id ASC").
		Find(&detail.AssignedProjects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load assigned projects: %w", err)
	}

	err = s.db.WithContext(ctx).
		Preload("Project").
		Where("assignee_to = ?", id).
		Order("created_at DESC, id DESC").
		Find(&detail.Tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	return detail, nil
}

// Search matches term against names and emails.
func (s *UserService) Search(ctx context.Context, term string) ([]model.User, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []model.User{}, nil
	}
	like := likePattern(term)
	var users []model.User
	if err := s.db.WithContext(ctx).Where("name LIKE ? OR email LIKE ?", like, like).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

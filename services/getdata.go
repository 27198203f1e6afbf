package services

import (
	"context"

	"projectflow/model"

	"gorm.io/gorm"
)

// Principal is the authenticated caller, passed explicitly to every
// service call.
type Principal struct {
	UserID uint
}

func GetUserData(ctx context.Context, db *gorm.DB, userID uint) (*model.User, error) {
	var user model.User
	if err := db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, lookupErr("user", err)
	}
	return &user, nil
}

func GetProjectData(ctx context.Context, db *gorm.DB, projectID uint) (*model.Project, error) {
	var project model.Project
	if err := db.WithContext(ctx).First(&project, projectID).Error; err != nil {
		return nil, lookupErr("project", err)
	}
	return &project, nil
}

func GetTaskData(ctx context.Context, db *gorm.DB, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := db.WithContext(ctx).First(&task, taskID).Error; err != nil {
		return nil, lookupErr("task", err)
	}
	return &task, nil
}

// usersExist reports the first id in ids that has no user row.
func usersExist(ctx context.Context, db *gorm.DB, ids ...uint) (uint, bool, error) {
	for _, id := range ids {
		var count int64
		if err := db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return 0, false, err
		}
		if count == 0 {
			return id, false, nil
		}
	}
	return 0, true, nil
}

// Package testdb opens throwaway in-memory databases for package tests.
package testdb

import (
	"fmt"
	"testing"
	"time"

	"projectflow/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated sqlite database private to the test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.Models()...))
	return db
}

func User(t testing.TB, db *gorm.DB, name string) model.User {
	t.Helper()
	u := model.User{
		Name:           name,
		Email:          fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		HashedPassword: "x",
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func Project(t testing.TB, db *gorm.DB, name string, createdBy uint) model.Project {
	t.Helper()
	p := model.Project{Name: name, CreatedBy: createdBy, Status: model.ProjectPending}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func Task(t testing.TB, db *gorm.DB, name string, projectID, createdBy uint, assignee *uint) model.Task {
	t.Helper()
	task := model.Task{
		Name:       name,
		ProjectID:  projectID,
		CreatedBy:  createdBy,
		AssigneeTo: assignee,
		Status:     model.TaskPending,
	}
	require.NoError(t, db.Create(&task).Error)
	return task
}

// Date is midnight UTC on the given day.
func Date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func Ptr[T any](v T) *T { return &v }

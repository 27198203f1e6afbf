package services

import (
	"context"
	"testing"
	"time"

	"projectflow/model"
	"projectflow/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testdb.User(t, f.db, "Sam")
	testdb.User(t, f.db, "Kim")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mkProject := func(name string, status model.ProjectStatus, age time.Duration) model.Project {
		p := model.Project{Name: name, CreatedBy: u.ID, Status: status, CreatedAt: now.Add(-age)}
		require.NoError(t, f.db.Create(&p).Error)
		return p
	}
	old := mkProject("Old", model.ProjectCompleted, 72*time.Hour)
	mkProject("Mid", model.ProjectInProgress, 30*time.Hour)
	mkProject("New", model.ProjectPending, 10*time.Minute)
	for i, age := range []time.Duration{5 * time.Hour, 2 * time.Hour, 48 * time.Hour} {
		task := model.Task{Name: []string{"a", "b", "c"}[i], ProjectID: old.ID, CreatedBy: u.ID, Status: model.TaskPending, CreatedAt: now.Add(-age)}
		require.NoError(t, f.db.Create(&task).Error)
	}

	d, err := f.query.dashboardAt(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.TotalProjects)
	assert.Equal(t, int64(2), d.TotalUsers)
	assert.Equal(t, int64(1), d.CompletedProjects)
	assert.Equal(t, int64(1), d.InProgressProjects)
	assert.ElementsMatch(t, []StatusCount{
		{Name: "Completed", Count: 1},
		{Name: "In progress", Count: 1},
		{Name: "Pending", Count: 1},
	}, d.ProjectsByStatus)

	require.Len(t, d.RecentActivities, recentLimit)
	var descriptions []string
	for _, a := range d.RecentActivities {
		descriptions = append(descriptions, a.Description)
		assert.Equal(t, "Sam", a.User)
	}
	assert.Equal(t, []string{
		"Created project: New",
		"Added task to Old: b",
		"Added task to Old: a",
		"Created project: Mid",
		"Added task to Old: c",
	}, descriptions)
	assert.Equal(t, "10 minutes ago", d.RecentActivities[0].Date)
	assert.Equal(t, "project_created", d.RecentActivities[0].Type)
}

func TestDashboardEmpty(t *testing.T) {
	f := newFixture(t)
	d, err := f.query.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Zero(t, d.TotalProjects)
	assert.Empty(t, d.ProjectsByStatus)
	assert.Empty(t, d.RecentActivities)
}

func TestCalendar(t *testing.T) {
	f := newFixture(t)
	u := testdb.User(t, f.db, "Sam")
	p1 := testdb.Project(t, f.db, "Alpha", u.ID)
	p2 := testdb.Project(t, f.db, "Beta", u.ID)

	undated := testdb.Task(t, f.db, "undated", p1.ID, u.ID, nil)
	later := testdb.Task(t, f.db, "later", p2.ID, u.ID, nil)
	sooner := testdb.Task(t, f.db, "sooner", p1.ID, u.ID, nil)
	require.NoError(t, f.db.Model(&model.Task{}).Where("id = ?", later.ID).Update("due_date", testdb.Date(2025, 7, 20)).Error)
	require.NoError(t, f.db.Model(&model.Task{}).Where("id = ?", sooner.ID).Update("due_date", testdb.Date(2025, 7, 1)).Error)

	view, err := f.query.Calendar(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Projects, 2)
	assert.Equal(t, p1.ID, view.Projects[0].ID)
	assert.Equal(t, p2.ID, view.Projects[1].ID)

	ids := make([]uint, 0, len(view.Tasks))
	for _, task := range view.Tasks {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []uint{sooner.ID, later.ID, undated.ID}, ids)
}

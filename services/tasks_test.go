package services

import (
	"context"
	"fmt"
	"testing"

	"projectflow/dto"
	"projectflow/model"
	"projectflow/notify"
	"projectflow/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWebsiteRelaunchScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := testdb.User(t, f.db, "lead")
	dev := testdb.User(t, f.db, "dev")
	me := Principal{UserID: lead.ID}

	project, err := f.projects.Create(ctx, me, dto.CreateProjectRequest{Name: "Website Relaunch"})
	require.NoError(t, err)
	stages, err := f.workflow.Stages(ctx, model.ProjectOwner(project.ID))
	require.NoError(t, err)
	require.Len(t, stages, 3)
	assert.Equal(t, []string{"To Do", "In Progress", "Done"}, []string{stages[0].Name, stages[1].Name, stages[2].Name})

	task, err := f.tasks.Create(ctx, me, dto.CreateTaskRequest{
		Name:       "Design mockups",
		ProjectID:  project.ID,
		AssigneeTo: &dev.ID,
		DueDate:    day(2025, 6, 1),
	})
	require.NoError(t, err)

	msgs := f.notifier.sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, dev.ID, msgs[0].To.ID)
	assert.Equal(t, notify.KindTaskAssigned, msgs[0].Kind)
	assert.Equal(t, "New Task Assignment: Design mockups", msgs[0].Subject)
	assert.Equal(t, fmt.Sprintf("%s/tasks/%d", testAppURL, task.ID), msgs[0].Link)
	assert.Contains(t, msgs[0].Body, "Website Relaunch")
	assert.Contains(t, msgs[0].Body, "Jun 01, 2025")

	_, err = f.tasks.SetStatus(ctx, task.ID, "completed")
	require.NoError(t, err)

	devView := Principal{UserID: dev.ID}
	pending, err := f.query.TaskBoard(ctx, devView, dto.TaskFilter{Status: "pending"})
	require.NoError(t, err)
	assert.Empty(t, pending)
	inProgress, err := f.query.TaskBoard(ctx, devView, dto.TaskFilter{Status: "in_progress"})
	require.NoError(t, err)
	assert.Empty(t, inProgress)

	all, err := f.query.TaskBoard(ctx, devView, dto.TaskFilter{Status: "all"})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, task.ID, all[0].ID)
	assert.Equal(t, model.TaskCompleted, all[0].Status)

	assert.Len(t, f.notifier.sent(), 1)
}

func TestCreateTaskWithoutAssigneeSendsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testdb.User(t, f.db, "u")
	p := testdb.Project(t, f.db, "p", u.ID)

	task, err := f.tasks.Create(ctx, Principal{UserID: u.ID}, dto.CreateTaskRequest{Name: "solo", ProjectID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, model.TaskPending, task.Status)
	assert.Empty(t, f.notifier.sent())
}

func TestCreateTaskValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testdb.User(t, f.db, "u")
	p := testdb.Project(t, f.db, "p", u.ID)
	me := Principal{UserID: u.ID}

	var verr *ValidationError
	_, err := f.tasks.Create(ctx, me, dto.CreateTaskRequest{Name: "t", ProjectID: 999})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "project_id", verr.Fields[0].Field)

	_, err = f.tasks.Create(ctx, me, dto.CreateTaskRequest{Name: "t", ProjectID: p.ID, Status: "done"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Fields[0].Field)

	_, err = f.tasks.Create(ctx, me, dto.CreateTaskRequest{Name: "t", ProjectID: p.ID, AssigneeTo: testdb.Ptr(uint(999))})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "assignee_to", verr.Fields[0].Field)

	var n int64
	require.NoError(t, f.db.Model(&model.Task{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Empty(t, f.notifier.sent())
}

func TestUpdateTaskNotifiesOnAssigneeChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testdb.User(t, f.db, "u")
	a := testdb.User(t, f.db, "a")
	b := testdb.User(t, f.db, "b")
	p := testdb.Project(t, f.db, "p", u.ID)
	task := testdb.Task(t, f.db, "t", p.ID, u.ID, &a.ID)
	me := Principal{UserID: u.ID}

	req := dto.UpdateTaskRequest{Name: "t", ProjectID: p.ID, AssigneeTo: &a.ID, Status: "in_progress"}
	_, err := f.tasks.Update(ctx, me, task.ID, req)
	require.NoError(t, err)
	assert.Empty(t, f.notifier.sent(), "same assignee")

	req.AssigneeTo = &b.ID
	updated, err := f.tasks.Update(ctx, me, task.ID, req)
	require.NoError(t, err)
	assert.Equal(t, model.TaskInProgress, updated.Status)
	assert.Equal(t, []uint{b.ID}, recipients(f.notifier.sent()))

	f.notifier.reset()
	req.AssigneeTo = nil
	_, err = f.tasks.Update(ctx, me, task.ID, req)
	require.NoError(t, err)
	assert.Empty(t, f.notifier.sent(), "cleared assignee")

	stored, err := GetTaskData(ctx, f.db, task.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.AssigneeTo)
}

func TestAssignAndUnassign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testdb.User(t, f.db, "u")
	a := testdb.User(t, f.db, "a")
	p := testdb.Project(t, f.db, "p", u.ID)
	task := testdb.Task(t, f.db, "t", p.ID, u.ID, nil)
	me := Principal{UserID: u.ID}

	assigned, err := f.tasks.Assign(ctx, me, task.ID, a.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssigneeTo)
	assert.Equal(t, []uint{a.ID}, recipients(f.notifier.sent()))

	_, err = f.tasks.Assign(ctx, me, task.ID, a.ID)
	require.NoError(t, err)
	assert.Len(t, f.notifier.sent(), 1)

	_, err = f.tasks.Assign(ctx, me, task.ID, 999)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	unassigned, err := f.tasks.Unassign(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, unassigned.AssigneeTo)
	assert.Len(t, f.notifier.sent(), 1)

	_, err = f.tasks.Assign(ctx, me, 999, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTaskPurgesThread(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testdb.User(t, f.db, "u")
	p := testdb.Project(t, f.db, "p", u.ID)
	task := testdb.Task(t, f.db, "t", p.ID, u.ID, nil)
	other := testdb.Task(t, f.db, "other", p.ID, u.ID, nil)
	me := Principal{UserID: u.ID}

	c, err := f.comments.Create(ctx, me, task.ID, dto.CreateCommentRequest{Body: "one"})
	require.NoError(t, err)
	_, err = f.comments.Create(ctx, me, task.ID, dto.CreateCommentRequest{Body: "two", ParentID: &c.ID})
	require.NoError(t, err)
	kept, err := f.comments.Create(ctx, me, other.ID, dto.CreateCommentRequest{Body: "elsewhere"})
	require.NoError(t, err)

	require.NoError(t, f.tasks.Delete(ctx, task.ID))

	var comments []model.Comment
	require.NoError(t, f.db.Find(&comments).Error)
	require.Len(t, comments, 1)
	assert.Equal(t, kept.ID, comments[0].ID)

	assert.ErrorIs(t, f.tasks.Delete(ctx, task.ID), ErrNotFound)
}

func TestTaskBoardOrderingAndScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := testdb.User(t, f.db, "me")
	other := testdb.User(t, f.db, "other")
	p := testdb.Project(t, f.db, "p", me.ID)

	undated := testdb.Task(t, f.db, "undated", p.ID, me.ID, nil)
	later := testdb.Task(t, f.db, "later", p.ID, other.ID, &me.ID)
	sooner := testdb.Task(t, f.db, "sooner", p.ID, me.ID, &other.ID)
	hidden := testdb.Task(t, f.db, "hidden", p.ID, other.ID, &other.ID)
	require.NoError(t, f.db.Model(&model.Task{}).Where("id = ?", later.ID).Update("due_date", testdb.Date(2025, 8, 1)).Error)
	require.NoError(t, f.db.Model(&model.Task{}).Where("id = ?", sooner.ID).Update("due_date", testdb.Date(2025, 2, 1)).Error)
	require.NoError(t, f.db.Model(&model.Task{}).Where("id = ?", hidden.ID).Update("due_date", testdb.Date(2025, 1, 1)).Error)

	board, err := f.query.TaskBoard(ctx, Principal{UserID: me.ID}, dto.TaskFilter{})
	require.NoError(t, err)
	ids := make([]uint, 0, len(board))
	for _, task := range board {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []uint{sooner.ID, later.ID, undated.ID}, ids)

	found, err := f.query.TaskBoard(ctx, Principal{UserID: me.ID}, dto.TaskFilter{Search: "LATE"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, later.ID, found[0].ID)

	_, err = f.query.TaskBoard(ctx, Principal{UserID: me.ID}, dto.TaskFilter{Status: "archived"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestTaskIndexPaginatesAssignedTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := testdb.User(t, f.db, "me")
	other := testdb.User(t, f.db, "other")
	alpha := testdb.Project(t, f.db, "Alpha", me.ID)
	beta := testdb.Project(t, f.db, "Beta launch", me.ID)

	for i := 0; i < 14; i++ {
		testdb.Task(t, f.db, fmt.Sprintf("task %02d", i), alpha.ID, other.ID, &me.ID)
	}
	betaTask := testdb.Task(t, f.db, "copy", beta.ID, other.ID, &me.ID)
	testdb.Task(t, f.db, "not mine", alpha.ID, me.ID, &other.ID)

	first, err := f.query.TaskIndex(ctx, Principal{UserID: me.ID}, dto.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(15), first.Total)
	assert.Len(t, first.Data, TaskPageSize)
	assert.Equal(t, 2, first.LastPage)
	assert.Equal(t, betaTask.ID, first.Data[0].ID)

	second, err := f.query.TaskIndex(ctx, Principal{UserID: me.ID}, dto.TaskFilter{Page: 2})
	require.NoError(t, err)
	assert.Len(t, second.Data, 3)
	assert.Equal(t, 2, second.CurrentPage)

	byProject, err := f.query.TaskIndex(ctx, Principal{UserID: me.ID}, dto.TaskFilter{Search: "launch"})
	require.NoError(t, err)
	require.Len(t, byProject.Data, 1)
	assert.Equal(t, betaTask.ID, byProject.Data[0].ID)
	require.NotNil(t, byProject.Data[0].Project)
	assert.Equal(t, "Beta launch", byProject.Data[0].Project.Name)

	_, err = f.tasks.SetStatus(ctx, betaTask.ID, "completed")
	require.NoError(t, err)
	done, err := f.query.TaskIndex(ctx, Principal{UserID: me.ID}, dto.TaskFilter{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), done.Total)
}

func TestTaskWriteSurvivesNotifierFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := testdb.User(t, f.db, "lead")
	dev := testdb.User(t, f.db, "dev")
	p := testdb.Project(t, f.db, "p", lead.ID)

	n := &failingNotifier{}
	tasks := NewTaskService(f.db, f.workflow, f.store, n, testAppURL, zap.NewNop())

	task, err := tasks.Create(ctx, Principal{UserID: lead.ID}, dto.CreateTaskRequest{
		Name:       "Ship it",
		ProjectID:  p.ID,
		AssigneeTo: &dev.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n.calls)

	stored, err := GetTaskData(ctx, f.db, task.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AssigneeTo)
	assert.Equal(t, dev.ID, *stored.AssigneeTo)

	_, err = tasks.Assign(ctx, Principal{UserID: lead.ID}, task.ID, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n.calls)
	stored, err = GetTaskData(ctx, f.db, task.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.ID, *stored.AssigneeTo)
}

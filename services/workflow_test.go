package services

import (
	"context"
	"sync"
	"testing"

	"projectflow/dto"
	"projectflow/model"
	"projectflow/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProjectSeedsDefaultStages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testdb.User(t, f.db, "owner")

	project, err := f.projects.Create(ctx, Principal{UserID: owner.ID}, dto.CreateProjectRequest{Name: "Website Relaunch"})
	require.NoError(t, err)
	assert.Equal(t, model.ProjectPending, project.Status)

	stages, err := f.workflow.Stages(ctx, model.ProjectOwner(project.ID))
	require.NoError(t, err)
	require.Len(t, stages, 3)
	for i, name := range []string{"To Do", "In Progress", "Done"} {
		assert.Equal(t, name, stages[i].Name)
		assert.Equal(t, i, stages[i].Position)
		assert.Equal(t, model.OwnerProject, stages[i].BoardableType)
		assert.Equal(t, project.ID, stages[i].BoardableID)
		assert.Equal(t, model.StageTypeProject, stages[i].Type)
	}

	// Another project gets its own set.
	other, err := f.projects.Create(ctx, Principal{UserID: owner.ID}, dto.CreateProjectRequest{Name: "Other"})
	require.NoError(t, err)
	otherStages, err := f.workflow.Stages(ctx, model.ProjectOwner(other.ID))
	require.NoError(t, err)
	assert.Len(t, otherStages, 3)
	assert.NotEqual(t, stages[0].ID, otherStages[0].ID)
}

func TestSetTaskStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testdb.User(t, f.db, "u")
	p := testdb.Project(t, f.db, "p", u.ID)
	task := testdb.Task(t, f.db, "t", p.ID, u.ID, nil)

	_, err := f.workflow.SetTaskStatus(ctx, task.ID, "done")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Fields[0].Field)

	stored, err := GetTaskData(ctx, f.db, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskPending, stored.Status)

	updated, err := f.workflow.SetTaskStatus(ctx, task.ID, model.TaskCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.TaskCompleted, updated.Status)

	_, err = f.workflow.SetTaskStatus(ctx, 9999, model.TaskCompleted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetProjectStatusIsStrict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testdb.User(t, f.db, "u")
	p := testdb.Project(t, f.db, "p", u.ID)

	_, err := f.workflow.SetProjectStatus(ctx, p.ID, "Review")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	updated, err := f.workflow.SetProjectStatus(ctx, p.ID, model.ProjectInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectInProgress, updated.Status)
}

func TestDeleteStageNullifiesProjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testdb.User(t, f.db, "u")
	project, err := f.projects.Create(ctx, Principal{UserID: u.ID}, dto.CreateProjectRequest{Name: "p"})
	require.NoError(t, err)
	owner := model.ProjectOwner(project.ID)

	stages, err := f.workflow.Stages(ctx, owner)
	require.NoError(t, err)
	stage := stages[1]

	_, err = f.workflow.AssignBoardStage(ctx, project.ID, &stage.ID)
	require.NoError(t, err)

	require.NoError(t, f.workflow.DeleteStage(ctx, owner, stage.ID))

	stored, err := GetProjectData(ctx, f.db, project.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.BoardStageID)
	assert.Equal(t, model.ProjectPending, stored.Status)

	err = f.workflow.DeleteStage(ctx, owner, stage.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteStageOutsideScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testdb.User(t, f.db, "u")
	project, err := f.projects.Create(ctx, Principal{UserID: u.ID}, dto.CreateProjectRequest{Name: "p"})
	require.NoError(t, err)
	stages, err := f.workflow.Stages(ctx, model.ProjectOwner(project.ID))
	require.NoError(t, err)

	err = f.workflow.DeleteStage(ctx, model.UserOwner(u.ID), stages[0].ID)
	assert.ErrorIs(t, err, ErrStageNotRemovable)

	other := testdb.Project(t, f.db, "other", u.ID)
	err = f.workflow.DeleteStage(ctx, model.ProjectOwner(other.ID), stages[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	remaining, err := f.workflow.Stages(ctx, model.ProjectOwner(project.ID))
	require.NoError(t, err)
	assert.Len(t, remaining, 3)
}

func TestAddStage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testdb.User(t, f.db, "u")
	p := testdb.Project(t, f.db, "p", u.ID)
	owner := model.ProjectOwner(p.ID)

	first, err := f.workflow.AddStage(ctx, owner, dto.CreateStageRequest{Name: "Backlog"})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Position)
	assert.NotEmpty(t, first.Color)

	second, err := f.workflow.AddStage(ctx, owner, dto.CreateStageRequest{Name: "Review", Color: "#123456"})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, "#123456", second.Color)

	placed, err := f.workflow.AddStage(ctx, owner, dto.CreateStageRequest{Name: "Top", Position: testdb.Ptr(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, placed.Position)

	_, err = f.workflow.AddStage(ctx, owner, dto.CreateStageRequest{Name: ""})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.workflow.AddStage(ctx, model.ProjectOwner(999), dto.CreateStageRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddStageConcurrentPositionsAreDistinct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testdb.User(t, f.db, "u")
	owner := model.UserOwner(u.ID)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.workflow.AddStage(ctx, owner, dto.CreateStageRequest{Name: "col"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stages, err := f.workflow.Stages(ctx, owner)
	require.NoError(t, err)
	require.Len(t, stages, n)
	for i, s := range stages {
		assert.Equal(t, i, s.Position)
		assert.Equal(t, model.StageTypeUser, s.Type)
	}
}

func TestUpdateStage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testdb.User(t, f.db, "u")
	p := testdb.Project(t, f.db, "p", u.ID)
	owner := model.ProjectOwner(p.ID)
	stage, err := f.workflow.AddStage(ctx, owner, dto.CreateStageRequest{Name: "Old"})
	require.NoError(t, err)

	updated, err := f.workflow.UpdateStage(ctx, owner, stage.ID, dto.UpdateStageRequest{Name: testdb.Ptr("New")})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, stage.Color, updated.Color)

	_, err = f.workflow.UpdateStage(ctx, owner, stage.ID, dto.UpdateStageRequest{})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAssignBoardStageUnknownStage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testdb.User(t, f.db, "u")
	p := testdb.Project(t, f.db, "p", u.ID)

	_, err := f.workflow.AssignBoardStage(ctx, p.ID, testdb.Ptr(uint(404)))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "board_stage_id", verr.Fields[0].Field)

	cleared, err := f.workflow.AssignBoardStage(ctx, p.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.BoardStageID)
}

func TestAssignBoardStageAcceptsAnyScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testdb.User(t, f.db, "u")
	me := Principal{UserID: u.ID}
	a, err := f.projects.Create(ctx, me, dto.CreateProjectRequest{Name: "A"})
	require.NoError(t, err)
	b, err := f.projects.Create(ctx, me, dto.CreateProjectRequest{Name: "B"})
	require.NoError(t, err)
	personal, err := f.workflow.AddStage(ctx, model.UserOwner(u.ID), dto.CreateStageRequest{Name: "Someday"})
	require.NoError(t, err)

	bStages, err := f.workflow.Stages(ctx, model.ProjectOwner(b.ID))
	require.NoError(t, err)

	for _, stageID := range []uint{bStages[0].ID, personal.ID} {
		got, err := f.workflow.AssignBoardStage(ctx, a.ID, &stageID)
		require.NoError(t, err)
		require.NotNil(t, got.BoardStageID)
		assert.Equal(t, stageID, *got.BoardStageID)
		assert.Equal(t, model.ProjectPending, got.Status)
	}
}

package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"projectflow/model"

	"github.com/dustin/go-humanize"
)

// recentLimit bounds both the per-kind fetch and the merged activity list.
const recentLimit = 5

type StatusCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type Activity struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	User        string    `json:"user"`
	CreatedAt   time.Time `json:"created_at"`
	Date        string    `json:"date"`
}

type Dashboard struct {
	TotalProjects      int64         `json:"total_projects"`
	TotalUsers         int64         `json:"total_users"`
	CompletedProjects  int64         `json:"completed_projects"`
	InProgressProjects int64         `json:"in_progress_projects"`
	ProjectsByStatus   []StatusCount `json:"projects_by_status"`
	RecentActivities   []Activity    `json:"recent_activities"`
}

// statusName renders "in_progress" as "In progress".
func statusName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Dashboard gathers project stats and the latest activity. Activities are
// ordered by their timestamps; Date is only a display label.
func (q *QueryService) Dashboard(ctx context.Context) (*Dashboard, error) {
	return q.dashboardAt(ctx, time.Now())
}

func (q *QueryService) dashboardAt(ctx context.Context, now time.Time) (*Dashboard, error) {
	db := q.db.WithContext(ctx)
	out := &Dashboard{ProjectsByStatus: []StatusCount{}, RecentActivities: []Activity{}}

	var stats struct {
		Total      int64
		Completed  int64
		InProgress int64
	}
	err := db.Model(&model.Project{}).Select(
		"COUNT(*) AS total, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS in_progress",
		model.ProjectCompleted, model.ProjectInProgress,
	).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	out.TotalProjects, out.CompletedProjects, out.InProgressProjects = stats.Total, stats.Completed, stats.InProgress

	if err := db.Model(&model.User{}).Count(&out.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var groups []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&model.Project{}).Select("status, COUNT(*) AS count").Group("status").Order("status").Scan(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to group projects: %w", err)
	}
	for _, g := range groups {
		out.ProjectsByStatus = append(out.ProjectsByStatus, StatusCount{Name: statusName(g.Status), Count: g.Count})
	}

	var projects []model.Project
	if err := db.Preload("Creator").Order("created_at DESC, id DESC").Limit(recentLimit).Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent projects: %w", err)
	}
	var tasks []model.Task
	if err := db.Preload("Creator").Preload("Project").Order("created_at DESC, id DESC").Limit(recentLimit).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent tasks: %w", err)
	}

	for _, p := range projects {
		out.RecentActivities = append(out.RecentActivities, Activity{
			ID:          fmt.Sprintf("project_%d", p.ID),
			Type:        "project_created",
			Description: "Created project: " + p.Name,
			User:        userName(p.Creator),
			CreatedAt:   p.CreatedAt,
		})
	}
	for _, t := range tasks {
		project := ""
		if t.Project != nil {
			project = t.Project.Name
		}
		out.RecentActivities = append(out.RecentActivities, Activity{
			ID:          fmt.Sprintf("task_%d", t.ID),
			Type:        "task_created",
			Description: fmt.Sprintf("Added task to %s: %s", project, t.Name),
			User:        userName(t.Creator),
			CreatedAt:   t.CreatedAt,
		})
	}

	sort.SliceStable(out.RecentActivities, func(i, j int) bool {
		return out.RecentActivities[i].CreatedAt.After(out.RecentActivities[j].CreatedAt)
	})
	if len(out.RecentActivities) > recentLimit {
		out.RecentActivities = out.RecentActivities[:recentLimit]
	}
	for i := range out.RecentActivities {
		out.RecentActivities[i].Date = humanize.RelTime(out.RecentActivities[i].CreatedAt, now, "ago", "from now")
	}
	return out, nil
}

func userName(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.Name
}

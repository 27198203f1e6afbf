package services

import (
	"context"

	"projectflow/model"
	"projectflow/notify"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notifier accepts messages for delivery after a write has committed.
// *notify.Dispatcher satisfies it.
type Notifier interface {
	Enqueue(ctx context.Context, msgs ...notify.Message) error
}

// taskNotices builds the messages the write services hand to a Notifier.
// Delivery problems are logged and never reach the caller.
type taskNotices struct {
	db       *gorm.DB
	notifier Notifier
	appURL   string
	log      *zap.Logger
}

func (n *taskNotices) send(ctx context.Context, msgs []notify.Message) {
	if n.notifier == nil || len(msgs) == 0 {
		return
	}
	if err := n.notifier.Enqueue(ctx, msgs...); err != nil {
		n.log.Error("failed to enqueue notifications", zap.Int("count", len(msgs)), zap.Error(err))
	}
}

func (n *taskNotices) assigned(ctx context.Context, task model.Task, by Principal) {
	if task.AssigneeTo == nil {
		return
	}
	assignee, err := GetUserData(ctx, n.db, *task.AssigneeTo)
	if err != nil {
		n.log.Warn("assignee not loaded for notification", zap.Uint("task_id", task.ID), zap.Error(err))
		return
	}
	projectName := ""
	if project, err := GetProjectData(ctx, n.db, task.ProjectID); err == nil {
		projectName = project.Name
	}
	assignedBy := ""
	if u, err := GetUserData(ctx, n.db, by.UserID); err == nil {
		assignedBy = u.Name
	}
	n.send(ctx, []notify.Message{
		notify.TaskAssigned(n.appURL, notify.RecipientOf(*assignee), task, projectName, assignedBy),
	})
}

// commented notifies the task assignee and earlier commenters of the
// thread about comment. prior holds the authors of comments that existed
// before it.
func (n *taskNotices) commented(ctx context.Context, task model.Task, comment model.Comment, prior []uint) {
	ids := notify.CommentRecipients(task.AssigneeTo, comment.UserID, prior)
	if len(ids) == 0 {
		return
	}

	var users []model.User
	if err := n.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		n.log.Warn("recipients not loaded for notification", zap.Uint("task_id", task.ID), zap.Error(err))
		return
	}
	byID := make(map[uint]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	commenter := ""
	if u, err := GetUserData(ctx, n.db, comment.UserID); err == nil {
		commenter = u.Name
	}

	msgs := make([]notify.Message, 0, len(ids))
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			continue
		}
		msgs = append(msgs, notify.TaskComment(n.appURL, notify.RecipientOf(u), task, comment, commenter))
	}
	n.send(ctx, msgs)
}

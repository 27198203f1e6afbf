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

type CommentService struct {
	db      *gorm.DB
	store   storage.ObjectStorage
	notices *taskNotices
	log     *zap.Logger
}

func NewCommentService(db *gorm.DB, store storage.ObjectStorage, notifier Notifier, appURL string, log *zap.Logger) *CommentService {
	return &CommentService{
		db:      db,
		store:   store,
		notices: &taskNotices{db: db, notifier: notifier, appURL: appURL, log: log},
		log:     log,
	}
}

// threadComment loads commentID and checks it belongs to taskID's thread,
// either directly or as a reply somewhere below it.
func (s *CommentService) threadComment(ctx context.Context, taskID, commentID uint) (*model.Comment, []uint, error) {
	ids, err := threadCommentIDs(s.db.WithContext(ctx), model.TaskOwner(taskID))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load comment thread: %w", err)
	}
	found := false
	for _, id := range ids {
		if id == commentID {
			found = true
			break
		}
	}
	if !found {
		return nil, nil, notFound("comment")
	}
	var comment model.Comment
	if err := s.db.WithContext(ctx).First(&comment, commentID).Error; err != nil {
		return nil, nil, lookupErr("comment", err)
	}
	return &comment, ids, nil
}

func (s *CommentService) List(ctx context.Context, taskID uint) ([]model.Comment, error) {
	if err := requireOwner(ctx, s.db, model.TaskOwner(taskID)); err != nil {
		return nil, err
	}
	var comments []model.Comment
	err := s.db.WithContext(ctx).
		Where("commentable_type = ? AND commentable_id = ?", model.OwnerTask, taskID).
		Preload("User").
		Preload("MentionedUsers").
		Preload("Attachments").
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Replies.User").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}
	return comments, nil
}

// Create adds a comment to the task, or a reply when ParentID names a
// comment of the same thread, then notifies the assignee and earlier
// commenters.
func (s *CommentService) Create(ctx context.Context, p Principal, taskID uint, req dto.CreateCommentRequest) (*model.Comment, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	task, err := GetTaskData(ctx, s.db, taskID)
	if err != nil {
		return nil, err
	}

	owner := model.TaskOwner(task.ID)
	threadIDs, err := threadCommentIDs(s.db.WithContext(ctx), owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment thread: %w", err)
	}
	if req.ParentID != nil {
		parent, _, err := s.threadComment(ctx, task.ID, *req.ParentID)
		if err != nil {
			return nil, err
		}
		owner = model.CommentOwner(parent.ID)
	}

	var mentioned []model.User
	if len(req.Mentions) > 0 {
		if missing, ok, err := usersExist(ctx, s.db, req.Mentions...); err != nil {
			return nil, fmt.Errorf("failed to verify mentions: %w", err)
		} else if !ok {
			return nil, invalid("mentions", fmt.Sprintf("user %d does not exist", missing))
		}
		if err := s.db.WithContext(ctx).Where("id IN ?", req.Mentions).Find(&mentioned).Error; err != nil {
			return nil, fmt.Errorf("failed to load mentioned users: %w", err)
		}
	}

	var prior []uint
	if len(threadIDs) > 0 {
		if err := s.db.WithContext(ctx).Model(&model.Comment{}).
			Where("id IN ?", threadIDs).
			Distinct().Pluck("user_id", &prior).Error; err != nil {
			return nil, fmt.Errorf("failed to load earlier commenters: %w", err)
		}
	}

	comment := model.Comment{Body: req.Body, UserID: p.UserID}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AttachTo(ctx, tx, owner, &comment); err != nil {
			return err
		}
		if len(mentioned) > 0 {
			return tx.Model(&comment).Association("MentionedUsers").Append(&mentioned)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	comment.MentionedUsers = mentioned

	s.log.Info("comment created",
		zap.Uint("comment_id", comment.ID),
		zap.Uint("task_id", task.ID),
		zap.Stringer("owner", owner))
	s.notices.commented(ctx, *task, comment, prior)
	return &comment, nil
}

// Update changes the body of a comment. Only its author may do so.
func (s *CommentService) Update(ctx context.Context, p Principal, taskID, commentID uint, req dto.UpdateCommentRequest) (*model.Comment, error) {
	comment, _, err := s.threadComment(ctx, taskID, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != p.UserID {
		return nil, ErrForbidden
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", comment.ID).Update("body", req.Body).Error; err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	comment.Body = req.Body
	return comment, nil
}

// Delete removes an author's comment together with its replies, mentions
// and attachments.
func (s *CommentService) Delete(ctx context.Context, p Principal, taskID, commentID uint) error {
	comment, _, err := s.threadComment(ctx, taskID, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != p.UserID {
		return ErrForbidden
	}

	var paths []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if paths, err = purgeOwned(tx, model.CommentOwner(comment.ID)); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM comment_mentions WHERE comment_id = ?", comment.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Comment{}, comment.ID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	removeObjects(ctx, s.store, s.log, paths)
	return nil
}

package services

import (
	"context"
	"fmt"
	"strings"

	"projectflow/model"

	"gorm.io/gorm"
)

// OwnerExists checks the row behind a polymorphic owner. The database has
// no foreign key across (owner_type, owner_id), so every attach goes
// through here first.
func OwnerExists(ctx context.Context, db *gorm.DB, owner model.Owner) (bool, error) {
	var table interface{}
	switch owner.Type {
	case model.OwnerProject:
		table = &model.Project{}
	case model.OwnerTask:
		table = &model.Task{}
	case model.OwnerComment:
		table = &model.Comment{}
	case model.OwnerUser:
		table = &model.User{}
	default:
		return false, fmt.Errorf("unknown owner type %q", owner.Type)
	}

	var count int64
	if err := db.WithContext(ctx).Model(table).Where("id = ?", owner.ID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func requireOwner(ctx context.Context, db *gorm.DB, owner model.Owner) error {
	ok, err := OwnerExists(ctx, db, owner)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(string(owner.Type))
	}
	return nil
}

// AttachTo stamps the owner columns on row and inserts it. row must be a
// *model.Attachment, *model.Comment or *model.BoardStage.
func AttachTo(ctx context.Context, db *gorm.DB, owner model.Owner, row interface{}) error {
	switch r := row.(type) {
	case *model.Attachment:
		if owner.Type != model.OwnerProject && owner.Type != model.OwnerTask && owner.Type != model.OwnerComment {
			return fmt.Errorf("attachments cannot belong to %s", owner.Type)
		}
		r.AttachableType, r.AttachableID = owner.Type, owner.ID
	case *model.Comment:
		if owner.Type != model.OwnerTask && owner.Type != model.OwnerComment {
			return fmt.Errorf("comments cannot belong to %s", owner.Type)
		}
		r.CommentableType, r.CommentableID = owner.Type, owner.ID
	case *model.BoardStage:
		if owner.Type != model.OwnerProject && owner.Type != model.OwnerUser {
			return fmt.Errorf("board stages cannot belong to %s", owner.Type)
		}
		r.BoardableType, r.BoardableID = owner.Type, owner.ID
	default:
		return fmt.Errorf("type %T is not associable", row)
	}

	if err := requireOwner(ctx, db, owner); err != nil {
		return err
	}
	return db.WithContext(ctx).Create(row).Error
}

// QueryFor loads every row of dest's type that belongs to owner. Comments
// and attachments come back in insertion order, board stages by position.
func QueryFor(ctx context.Context, db *gorm.DB, owner model.Owner, dest interface{}) error {
	q := db.WithContext(ctx)
	switch dest.(type) {
	case *[]model.Attachment:
		q = q.Where("attachable_type = ? AND attachable_id = ?", owner.Type, owner.ID).Order("id ASC")
	case *[]model.Comment:
		q = q.Where("commentable_type = ? AND commentable_id = ?", owner.Type, owner.ID).Order("id ASC")
	case *[]model.BoardStage:
		q = q.Where("boardable_type = ? AND boardable_id = ?", owner.Type, owner.ID).Order("position ASC, id ASC")
	default:
		return fmt.Errorf("type %T is not associable", dest)
	}
	return q.Find(dest).Error
}

// threadCommentIDs returns the ids of every comment under owner,
// following replies down the tree.
func threadCommentIDs(tx *gorm.DB, owners ...model.Owner) ([]uint, error) {
	var all []uint
	var frontier []uint

	for _, o := range owners {
		var ids []uint
		if err := tx.Model(&model.Comment{}).
			Where("commentable_type = ? AND commentable_id = ?", o.Type, o.ID).
			Pluck("id", &ids).Error; err != nil {
			return nil, err
		}
		frontier = append(frontier, ids...)
	}

	for len(frontier) > 0 {
		all = append(all, frontier...)
		var next []uint
		if err := tx.Model(&model.Comment{}).
			Where("commentable_type = ? AND commentable_id IN ?", model.OwnerComment, frontier).
			Pluck("id", &next).Error; err != nil {
			return nil, err
		}
		frontier = next
	}
	return all, nil
}

// purgeOwned deletes the comments (with replies and mentions) and
// attachments hanging off owners. It returns the storage keys of removed
// attachments so the caller can drop the objects after commit.
func purgeOwned(tx *gorm.DB, owners ...model.Owner) ([]string, error) {
	commentIDs, err := threadCommentIDs(tx, owners...)
	if err != nil {
		return nil, err
	}

	var clauses []string
	var args []interface{}
	for _, o := range owners {
		clauses = append(clauses, "(attachable_type = ? AND attachable_id = ?)")
		args = append(args, o.Type, o.ID)
	}
	if len(commentIDs) > 0 {
		clauses = append(clauses, "(attachable_type = ? AND attachable_id IN ?)")
		args = append(args, model.OwnerComment, commentIDs)
	}

	var attachments []model.Attachment
	if len(clauses) > 0 {
		if err := tx.Where(strings.Join(clauses, " OR "), args...).Find(&attachments).Error; err != nil {
			return nil, err
		}
	}

	paths := make([]string, 0, len(attachments))
	if len(attachments) > 0 {
		ids := make([]uint, 0, len(attachments))
		for _, a := range attachments {
			ids = append(ids, a.ID)
			paths = append(paths, a.Path)
		}
		if err := tx.Delete(&model.Attachment{}, ids).Error; err != nil {
			return nil, err
		}
	}

	if len(commentIDs) > 0 {
		if err := tx.Exec("DELETE FROM comment_mentions WHERE comment_id IN ?", commentIDs).Error; err != nil {
			return nil, err
		}
		if err := tx.Delete(&model.Comment{}, commentIDs).Error; err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// model/comment.go
package model

import (
	"time"
)

const MaxCommentLength = 2000

type Comment struct {
	ID              uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CommentableType OwnerType `gorm:"column:commentable_type;type:varchar(32);not null;index:idx_comments_owner,priority:1" json:"commentable_type"`
	CommentableID   uint      `gorm:"column:commentable_id;not null;index:idx_comments_owner,priority:2" json:"commentable_id"`
	Body            string    `gorm:"column:body;type:text;not null" json:"body"`
	UserID          uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relations
	User           *User        `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"user,omitempty"`
	Replies        []Comment    `gorm:"polymorphic:Commentable;polymorphicValue:Comment" json:"replies,omitempty"`
	Attachments    []Attachment `gorm:"polymorphic:Attachable;polymorphicValue:Comment" json:"attachments,omitempty"`
	MentionedUsers []User       `gorm:"many2many:comment_mentions" json:"mentioned_users,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c Comment) Owner() Owner {
	return Owner{Type: c.CommentableType, ID: c.CommentableID}
}

// model/attachment.go
package model

import (
	"time"
)

type Attachment struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AttachableType OwnerType `gorm:"column:attachable_type;type:varchar(32);not null;index:idx_attachments_owner,priority:1" json:"attachable_type"`
	AttachableID   uint      `gorm:"column:attachable_id;not null;index:idx_attachments_owner,priority:2" json:"attachable_id"`
	Name           string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Path           string    `gorm:"column:path;type:varchar(512);not null" json:"-"`
	URL            string    `gorm:"column:url;type:varchar(1024)" json:"url"`
	Type           string    `gorm:"column:type;type:varchar(255)" json:"type"`
	MimeType       string    `gorm:"column:mime_type;type:varchar(255)" json:"mime_type"`
	Size           int64     `gorm:"column:size;not null" json:"size"`
	Extension      string    `gorm:"column:extension;type:varchar(32)" json:"extension"`
	UserID         uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"user,omitempty"`
}

func (Attachment) TableName() string {
	return "attachments"
}

func (a Attachment) Owner() Owner {
	return Owner{Type: a.AttachableType, ID: a.AttachableID}
}

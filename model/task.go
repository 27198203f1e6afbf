package model

import (
	"time"
)

type Task struct {
	ID          uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string     `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	ProjectID   uint       `gorm:"column:project_id;not null;index" json:"project_id"`
	AssigneeTo  *uint      `gorm:"column:assignee_to;index" json:"assignee_to"`
	DueDate     *time.Time `gorm:"column:due_date;type:date" json:"due_date"`
	Status      TaskStatus `gorm:"column:status;type:varchar(32);default:'pending';not null" json:"status"`
	CreatedBy   uint       `gorm:"column:created_by;not null;index" json:"created_by"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relations
	Project     *Project     `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"project,omitempty"`
	Assignee    *User        `gorm:"foreignKey:AssigneeTo;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"assignee,omitempty"`
	Creator     *User        `gorm:"foreignKey:CreatedBy;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"creator,omitempty"`
	Comments    []Comment    `gorm:"polymorphic:Commentable;polymorphicValue:Task" json:"comments,omitempty"`
	Attachments []Attachment `gorm:"polymorphic:Attachable;polymorphicValue:Task" json:"attachments,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}

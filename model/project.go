// model/project.go
package model

import (
	"time"
)

type Project struct {
	ID           uint          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name         string        `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description  string        `gorm:"column:description;type:text" json:"description"`
	AssigneeID   *uint         `gorm:"column:assignee_id;index" json:"assignee_id"`
	StartDate    *time.Time    `gorm:"column:start_date;type:date" json:"start_date"`
	EndDate      *time.Time    `gorm:"column:end_date;type:date" json:"end_date"`
	CreatedBy    uint          `gorm:"column:created_by;not null;index" json:"created_by"`
	Status       ProjectStatus `gorm:"column:status;type:varchar(32);default:'pending';not null" json:"status"`
	BoardStageID *uint         `gorm:"column:board_stage_id;index" json:"board_stage_id"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relations
	Assignee    *User        `gorm:"foreignKey:AssigneeID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"assignee,omitempty"`
	Creator     *User        `gorm:"foreignKey:CreatedBy;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"creator,omitempty"`
	BoardStage  *BoardStage  `gorm:"foreignKey:BoardStageID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE" json:"board_stage,omitempty"`
	Tasks       []Task       `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE" json:"tasks,omitempty"`
	Attachments []Attachment `gorm:"polymorphic:Attachable;polymorphicValue:Project" json:"attachments,omitempty"`
	Stages      []BoardStage `gorm:"polymorphic:Boardable;polymorphicValue:Project" json:"board_stages,omitempty"`

	// Filled by count queries only.
	TasksCount          int64 `gorm:"->;-:migration" json:"tasks_count,omitempty"`
	CompletedTasksCount int64 `gorm:"->;-:migration" json:"completed_tasks_count,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}

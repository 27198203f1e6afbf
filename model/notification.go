package model

import (
	"time"
)

type JobStatus string

const (
	JobQueued JobStatus = "queued"
	JobSent   JobStatus = "sent"
	JobFailed JobStatus = "failed"
)

// NotificationJob is the persisted outbox row for one queued delivery.
type NotificationJob struct {
	ID             uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Kind           string     `gorm:"column:kind;type:varchar(64);not null" json:"kind"`
	TaskID         *uint      `gorm:"column:task_id;index" json:"task_id"`
	RecipientID    uint       `gorm:"column:recipient_id;not null;index" json:"recipient_id"`
	RecipientEmail string     `gorm:"column:recipient_email;type:varchar(255);not null" json:"recipient_email"`
	RecipientName  string     `gorm:"column:recipient_name;type:varchar(255)" json:"recipient_name"`
	Subject        string     `gorm:"column:subject;type:varchar(512);not null" json:"subject"`
	Body           string     `gorm:"column:body;type:text" json:"body"`
	Link           string     `gorm:"column:link;type:varchar(1024)" json:"link"`
	Status         JobStatus  `gorm:"column:status;type:varchar(16);default:'queued';not null;index" json:"status"`
	Attempts       int        `gorm:"column:attempts;default:0;not null" json:"attempts"`
	LastError      string     `gorm:"column:last_error;type:text" json:"last_error"`
	SentAt         *time.Time `gorm:"column:sent_at" json:"sent_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (NotificationJob) TableName() string {
	return "notification_jobs"
}

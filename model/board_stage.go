// model/board_stage.go
package model

import (
	"time"
)

// StageType tells project columns apart from a user's personal board.
type StageType string

const (
	StageTypeProject StageType = "project"
	StageTypeUser    StageType = "default"
)

type BoardStage struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BoardableType OwnerType `gorm:"column:boardable_type;type:varchar(32);not null;index:idx_board_stages_owner,priority:1" json:"boardable_type"`
	BoardableID   uint      `gorm:"column:boardable_id;not null;index:idx_board_stages_owner,priority:2" json:"boardable_id"`
	Name          string    `gorm:"column:name;type:varchar(255);default:'New Stage';not null" json:"name"`
	Color         string    `gorm:"column:color;type:varchar(16);default:'#FFFFFF';not null" json:"color"`
	Position      int       `gorm:"column:position;default:0;not null" json:"position"`
	Type          StageType `gorm:"column:type;type:varchar(32);default:'default';not null" json:"type"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (BoardStage) TableName() string {
	return "board_stages"
}

func (s BoardStage) Owner() Owner {
	return Owner{Type: s.BoardableType, ID: s.BoardableID}
}

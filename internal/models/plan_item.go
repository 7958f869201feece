package models

import (
	"time"

	"gorm.io/datatypes"
)

// PlanItem is one row of the uploaded plan-of-day sheet. Rows are free-form
// (header-keyed string map), so the payload is stored as JSON instead of
// fixed columns.
type PlanItem struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Ordinal   int            `gorm:"not null;index" json:"ordinal"`
	Fields    datatypes.JSON `gorm:"type:jsonb" json:"fields"`
	CreatedAt time.Time      `gorm:"type:timestamptz;autoCreateTime" json:"createdAt"`
}

func (PlanItem) TableName() string {
	return "plan_items"
}

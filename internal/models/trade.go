package models

import (
	"time"
)

// Trade is one logged trade, open or closed. User-entered numeric fields are
// kept as the text the user typed (decimal-as-text); parsing happens leniently
// at aggregation time so an incomplete entry never breaks the stats view.
type Trade struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Date       string `gorm:"type:varchar(16);not null;index" json:"date"`
	Instrument string `gorm:"type:varchar(32);not null;index" json:"instrument"`
	Position   string `gorm:"type:varchar(8)" json:"position"`
	Strategy   string `gorm:"type:varchar(32);index" json:"strategy"`
	Timeframe  string `gorm:"type:varchar(8)" json:"timeframe"`
	Session    string `gorm:"type:varchar(16)" json:"session"`

	Quantity           string `gorm:"type:varchar(32)" json:"quantity"`
	HoldingTimeMinutes string `gorm:"type:varchar(16)" json:"holdingTimeMinutes"`
	StartTime          string `gorm:"type:varchar(8)" json:"startTime"`
	EndTime            string `gorm:"type:varchar(8)" json:"endTime"`

	StopLoss       string `gorm:"type:varchar(32)" json:"stopLoss"`
	AccountBalance string `gorm:"type:varchar(32)" json:"accountBalance"`
	RiskPercent    string `gorm:"type:varchar(16)" json:"riskPercent"`

	// PnL keeps its display form ("+150.50 PLN"); sign prefix and currency
	// suffix are part of the stored value.
	PnL     string `gorm:"column:pnl;type:varchar(32)" json:"pnl"`
	RFactor string `gorm:"column:r_factor;type:varchar(16)" json:"rFactor"`

	Win  string `gorm:"type:varchar(4)" json:"win"`
	Loss string `gorm:"type:varchar(4)" json:"loss"`

	Confidence string `gorm:"type:varchar(4)" json:"confidence"`
	PreNotes   string `gorm:"type:text" json:"preNotes"`
	PostNotes  string `gorm:"type:text" json:"postNotes"`

	IsActive bool `gorm:"not null;default:false;index" json:"isActive"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updatedAt"`
}

func (Trade) TableName() string {
	return "trades"
}

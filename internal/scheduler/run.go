package scheduler

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type SettlementRunStatus string

const (
	SettlementRunStatusRunning   SettlementRunStatus = "RUNNING"
	SettlementRunStatusSucceeded SettlementRunStatus = "SUCCEEDED"
)

// SettlementRun claims one calendar month for the automatic sweep. The unique
// period keeps two scheduler replicas from settling the same month twice.
type SettlementRun struct {
	ID            snowflake.ID        `gorm:"primaryKey;autoIncrement:false"`
	Period        string              `gorm:"type:varchar(7);not null;uniqueIndex:ux_settlement_runs_period"`
	Status        SettlementRunStatus `gorm:"type:varchar(16);not null"`
	SettledCount  int                 `gorm:"not null;default:0"`
	TotalAmount   decimal.Decimal     `gorm:"type:numeric(12,2);not null;default:0"`
	SettlementRef *string             `gorm:"type:varchar(26)"`
	StartedAt     time.Time           `gorm:"not null"`
	FinishedAt    *time.Time
}

func (SettlementRun) TableName() string { return "settlement_runs" }

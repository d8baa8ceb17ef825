package payoutmethod

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PayoutMethod is a destination an owner can be paid through.
type PayoutMethod struct {
	ID          string       `json:"id" gorm:"primaryKey;type:varchar(64)"`
	OwnerID     snowflake.ID `json:"owner_id" gorm:"not null;index:idx_payout_methods_owner_active,priority:1"`
	DisplayName string       `json:"display_name" gorm:"type:text;not null"`
	IsActive    bool         `json:"is_active" gorm:"not null;default:true;index:idx_payout_methods_owner_active,priority:2"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PayoutMethod) TableName() string { return "payout_methods" }

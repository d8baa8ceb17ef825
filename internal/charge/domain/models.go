package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ChargeType string

const (
	ChargeTypePurchase      ChargeType = "PURCHASE"
	ChargeTypePlayThreshold ChargeType = "PLAY_THRESHOLD"
)

func (t ChargeType) Valid() bool {
	return t == ChargeTypePurchase || t == ChargeTypePlayThreshold
}

type ChargeStatus string

const (
	ChargeStatusPending ChargeStatus = "PENDING"
	ChargeStatusPaid    ChargeStatus = "PAID"
)

func (s ChargeStatus) Valid() bool {
	return s == ChargeStatusPending || s == ChargeStatusPaid
}

type ContentType string

const (
	ContentTypeTrack ContentType = "TRACK"
	ContentTypeAlbum ContentType = "ALBUM"
)

func (c ContentType) Valid() bool {
	return c == ContentTypeTrack || c == ContentTypeAlbum
}

// ParseChargeType accepts any casing and returns the canonical value.
func ParseChargeType(raw string) (ChargeType, error) {
	t := ChargeType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", ErrInvalidChargeType
	}
	return t, nil
}

func ParseChargeStatus(raw string) (ChargeStatus, error) {
	s := ChargeStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

func ParseContentType(raw string) (ContentType, error) {
	c := ContentType(strings.ToUpper(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", ErrInvalidContentType
	}
	return c, nil
}

// Charge is a single monetary claim owed to a content owner.
type Charge struct {
	ID      snowflake.ID `gorm:"primaryKey"`
	OwnerID snowflake.ID `gorm:"column:owner_id;not null;index:idx_charges_owner_status,priority:1"`

	ChargeType ChargeType      `gorm:"column:charge_type;type:varchar(32);not null"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	ContentType             *ContentType  `gorm:"column:content_type;type:varchar(16)"`
	TrackID                 *snowflake.ID `gorm:"column:track_id;index"`
	AlbumID                 *snowflake.ID `gorm:"column:album_id;index"`
	CumulativePlaysAtCharge *int64        `gorm:"column:cumulative_plays_at_charge"`

	Status         ChargeStatus `gorm:"type:varchar(16);not null;index:idx_charges_owner_status,priority:2"`
	PayoutMethodID *string      `gorm:"column:payout_method_id;type:varchar(64)"`
	SaleReference  *string      `gorm:"column:sale_reference;type:text"`
	Description    string       `gorm:"type:text;not null"`
	DedupeKey      *string      `gorm:"column:dedupe_key;type:varchar(191);uniqueIndex:ux_charges_dedupe_key"`
	SettlementRef  *string      `gorm:"column:settlement_ref;type:varchar(26);index"`

	Metadata datatypes.JSONMap `gorm:"type:json"`

	CreatedAt time.Time  `gorm:"not null;index"`
	PaidAt    *time.Time `gorm:"column:paid_at"`
}

func (Charge) TableName() string { return "charges" }

// Content returns the referenced content, or ok=false for charges without one.
func (c *Charge) Content() (ContentType, snowflake.ID, bool) {
	if c.ContentType == nil {
		return "", 0, false
	}
	switch *c.ContentType {
	case ContentTypeTrack:
		if c.TrackID != nil {
			return ContentTypeTrack, *c.TrackID, true
		}
	case ContentTypeAlbum:
		if c.AlbumID != nil {
			return ContentTypeAlbum, *c.AlbumID, true
		}
	}
	return "", 0, false
}

// SetContent points the charge at exactly one track or album.
func (c *Charge) SetContent(contentType ContentType, id snowflake.ID) {
	ct := contentType
	c.ContentType = &ct
	c.TrackID = nil
	c.AlbumID = nil
	switch contentType {
	case ContentTypeTrack:
		c.TrackID = &id
	case ContentTypeAlbum:
		c.AlbumID = &id
	}
}

func (c *Charge) Validate() error {
	if c.OwnerID == 0 {
		return ErrInvalidOwner
	}
	if !c.ChargeType.Valid() {
		return ErrInvalidChargeType
	}
	if !c.Status.Valid() {
		return ErrInvalidStatus
	}
	if c.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if c.ContentType == nil {
		if c.TrackID != nil || c.AlbumID != nil {
			return ErrInvalidContentType
		}
		return nil
	}
	switch *c.ContentType {
	case ContentTypeTrack:
		if c.TrackID == nil || *c.TrackID == 0 || c.AlbumID != nil {
			return ErrInvalidContentID
		}
	case ContentTypeAlbum:
		if c.AlbumID == nil || *c.AlbumID == 0 || c.TrackID != nil {
			return ErrInvalidContentID
		}
	default:
		return ErrInvalidContentType
	}
	return nil
}

// PlayThresholdDedupeKey identifies one milestone of one owner's track.
func PlayThresholdDedupeKey(ownerID, trackID snowflake.ID, milestone int64) string {
	return fmt.Sprintf("play_threshold:%s:%s:%s:%d", ownerID, ContentTypeTrack, trackID, milestone)
}

package catalog

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"gorm.io/gorm"
)

// Lookup reads display titles from the tracks and albums tables.
type Lookup struct {
	db *gorm.DB
}

func NewLookup(db *gorm.DB) *Lookup {
	return &Lookup{db: db}
}

// ContentTitle returns "" when the content does not exist.
func (l *Lookup) ContentTitle(ctx context.Context, contentType chargedomain.ContentType, contentID snowflake.ID) (string, error) {
	var table string
	switch contentType {
	case chargedomain.ContentTypeTrack:
		table = Track{}.TableName()
	case chargedomain.ContentTypeAlbum:
		table = Album{}.TableName()
	default:
		return "", fmt.Errorf("catalog: unsupported content type %q", contentType)
	}

	var titles []string
	err := l.db.WithContext(ctx).
		Table(table).
		Where("id = ?", contentID).
		Limit(1).
		Pluck("title", &titles).Error
	if err != nil {
		return "", err
	}
	if len(titles) == 0 {
		return "", nil
	}
	return titles[0], nil
}

type Noop struct{}

func (Noop) ContentTitle(context.Context, chargedomain.ContentType, snowflake.ID) (string, error) {
	return "", nil
}

var (
	_ chargedomain.CatalogLookup = (*Lookup)(nil)
	_ chargedomain.CatalogLookup = Noop{}
)

package catalog

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	chargedomain "github.com/smallbiznis/royalty/internal/charge/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLookupContentTitle(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Track{}, &Album{}))

	require.NoError(t, db.Create(&Album{ID: 10, Title: "Power, Corruption & Lies"}).Error)
	albumID := snowflake.ID(10)
	require.NoError(t, db.Create(&Track{ID: 11, AlbumID: &albumID, Title: "Age of Consent"}).Error)

	l := NewLookup(db)
	ctx := context.Background()

	title, err := l.ContentTitle(ctx, chargedomain.ContentTypeTrack, 11)
	require.NoError(t, err)
	assert.Equal(t, "Age of Consent", title)

	title, err = l.ContentTitle(ctx, chargedomain.ContentTypeAlbum, 10)
	require.NoError(t, err)
	assert.Equal(t, "Power, Corruption & Lies", title)

	title, err = l.ContentTitle(ctx, chargedomain.ContentTypeTrack, 10)
	require.NoError(t, err)
	assert.Empty(t, title)

	_, err = l.ContentTitle(ctx, chargedomain.ContentType("VIDEO"), 1)
	assert.Error(t, err)
}

func TestNoopContentTitle(t *testing.T) {
	title, err := Noop{}.ContentTitle(context.Background(), chargedomain.ContentTypeTrack, 1)
	assert.NoError(t, err)
	assert.Empty(t, title)
}

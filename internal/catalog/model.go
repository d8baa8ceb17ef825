package catalog

import "github.com/bwmarrin/snowflake"

type Track struct {
	ID      snowflake.ID  `gorm:"primaryKey;autoIncrement:false"`
	AlbumID *snowflake.ID `gorm:"index"`
	Title   string        `gorm:"type:text;not null"`
}

func (Track) TableName() string { return "tracks" }

type Album struct {
	ID    snowflake.ID `gorm:"primaryKey;autoIncrement:false"`
	Title string       `gorm:"type:text;not null"`
}

func (Album) TableName() string { return "albums" }

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Video quality ladder offered by the player. Which rung a viewer may reach
// is decided by entitlements, not by this model.
const (
	VideoQualitySD  = "720p"
	VideoQualityHD  = "1080p"
	VideoQualityUHD = "2160p"
)

type Video struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UUID         string         `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex;not null" json:"uuid"`
	UserID       uint           `gorm:"index" json:"user_id"`
	User         User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title        string         `gorm:"type:varchar(255)" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	ManifestPath string         `gorm:"type:varchar(255);not null" json:"manifest_path"`
	Duration     int            `gorm:"type:int" json:"duration"` // seconds
	MaxQuality   string         `gorm:"type:varchar(16);default:'720p'" json:"max_quality"`
	IsPublic     bool           `gorm:"default:false" json:"is_public"`
	ViewCount    int            `gorm:"default:0" json:"view_count"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a public UUID when none was set.
func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.UUID == "" {
		v.UUID = uuid.New().String()
	}
	return nil
}

// IncrementViewCount bumps the playback counter.
func (v *Video) IncrementViewCount(db *gorm.DB) error {
	return db.Model(v).Update("view_count", v.ViewCount+1).Error
}

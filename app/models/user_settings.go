package models

import (
	"time"

	"gorm.io/gorm"
)

// UserSettings stores per-user preferences and plan info
type UserSettings struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"uniqueIndex" json:"user_id"`
	Plan             string         `gorm:"type:varchar(50);default:'free'" json:"plan"`
	PrefAutoplay     bool           `gorm:"default:true" json:"pref_autoplay"`
	PrefMaxQuality   string         `gorm:"type:varchar(16);default:'auto'" json:"pref_max_quality"`
	PrefSubtitleLang string         `gorm:"type:varchar(8);default:''" json:"pref_subtitle_lang"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// GetOrCreateUserSettings returns existing settings or creates defaults
func GetOrCreateUserSettings(db *gorm.DB, userID uint) (*UserSettings, error) {
	var us UserSettings
	if err := db.Where("user_id = ?", userID).First(&us).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			us = UserSettings{UserID: userID, Plan: "free", PrefAutoplay: true, PrefMaxQuality: "auto"}
			if err := db.Create(&us).Error; err != nil {
				return nil, err
			}
			return &us, nil
		}
		return nil, err
	}
	return &us, nil
}

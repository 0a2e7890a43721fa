package data

import (
	"sync"

	"github.com/eipsight/eipsight/src/insight/types"
	"gorm.io/gorm"
)

var (
	settingsCache map[string]string
	settingsMu    sync.RWMutex
)

// LoadSettings loads all settings from database into cache
func LoadSettings(db *gorm.DB) error {
	var settings []types.Setting
	if err := db.Find(&settings).Error; err != nil {
		return err
	}

	settingsMu.Lock()
	defer settingsMu.Unlock()

	settingsCache = make(map[string]string)
	for _, s := range settings {
		settingsCache[s.Name] = s.Value
	}

	return nil
}

// GetSetting retrieves a setting value by name
func GetSetting(name string) string {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settingsCache[name]
}

// SetSetting upserts a setting and refreshes the cache entry. The indexer
// uses this for per-repo checkpoints.
func SetSetting(db *gorm.DB, name, value string) error {
	var s types.Setting
	err := db.Where("name = ?", name).First(&s).Error
	if err == gorm.ErrRecordNotFound {
		err = db.Create(&types.Setting{Name: name, Value: value}).Error
	} else if err == nil {
		err = db.Model(&s).Update("value", value).Error
	}
	if err != nil {
		return err
	}

	settingsMu.Lock()
	defer settingsMu.Unlock()
	if settingsCache == nil {
		settingsCache = make(map[string]string)
	}
	settingsCache[name] = value
	return nil
}

// RefreshSettings reloads settings from database
func RefreshSettings(db *gorm.DB) error {
	return LoadSettings(db)
}

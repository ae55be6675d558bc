/*
 * @Author:    thepoy
 * @File Name: model.go
 */

package store

import "time"

// cacheModel is the row shape shared by every SQL-backed Store, matching
// §6's schema: key TEXT PRIMARY KEY, value BLOB, updated TIMESTAMP.
type cacheModel struct {
	Key     string `gorm:"column:key;primaryKey"`
	Value   []byte `gorm:"column:value"`
	Updated time.Time `gorm:"column:updated;autoUpdateTime"`
}

func (cacheModel) TableName() string {
	return "cache"
}

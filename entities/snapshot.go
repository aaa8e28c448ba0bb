package entities

import "time"

// InventorySnapshot records when the stored tables were last replaced and
// the as-of label they carry.
type InventorySnapshot struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	LastUpdated string `json:"lastUpdated"`
	Source      string `json:"source"` // seed|import
	CreatedAt   time.Time
}

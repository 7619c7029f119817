package models

import "time"

// KVEntry is one key-value pair in a user's namespace.
type KVEntry struct {
	Owner     string    `gorm:"type:text;primaryKey" json:"-"`
	Key       string    `gorm:"type:text;primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

type KVItem struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

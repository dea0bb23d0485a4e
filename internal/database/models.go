package database

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntry 表示一条持久化镜像记录，Key 为命名空间键，Value 为状态快照。
type KVEntry struct {
	Key       string         `gorm:"primaryKey;size:255"`
	Value     datatypes.JSON `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

// TableName 固定表名，避免 GORM 复数化规则变化。
func (KVEntry) TableName() string {
	return "kv_entries"
}

package model

// Setting is one persisted user preference, keyed by name with a
// JSON-encoded value. Kept in its own table, separate from tasks.
type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

func (Setting) TableName() string { return "settings" }

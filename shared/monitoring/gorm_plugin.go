package monitoring

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const gormStartKey = "monitoring:start"

// GormPlugin records every GORM statement as an external call to target "database"
type GormPlugin struct{}

// Name implements gorm.Plugin
func (GormPlugin) Name() string {
	return "monitoring"
}

// Initialize implements gorm.Plugin
func (GormPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		operation string
		before    func(string, func(*gorm.DB)) error
		after     func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, h := range hooks {
		operation := h.operation
		if err := h.before("monitoring:before_"+operation, startTimer); err != nil {
			return err
		}
		if err := h.after("monitoring:after_"+operation, func(tx *gorm.DB) {
			recordStatement(tx, operation)
		}); err != nil {
			return err
		}
	}
	return nil
}

func startTimer(tx *gorm.DB) {
	tx.InstanceSet(gormStartKey, time.Now())
}

func recordStatement(tx *gorm.DB, operation string) {
	v, ok := tx.InstanceGet(gormStartKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}
	err := tx.Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = nil
	}
	RecordExternalCall("database", operation, time.Since(start), err)
}

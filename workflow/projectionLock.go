package workflow

import (
	"fmt"

	"gorm.io/gorm"
)

// AcquireOwnerProjectionLock serializes projection per owner across instances using MySQL advisory locks.
// NOTE: GET_LOCK is connection-scoped, so this must be called on the same *gorm.DB that will apply the event.
func AcquireOwnerProjectionLock(tx *gorm.DB, ownerId string) error {
	lockName := fmt.Sprintf("projection:%s", ownerId)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire projection lock for owner_id=%s", ownerId)
	}
	return nil
}

func ReleaseOwnerProjectionLock(tx *gorm.DB, ownerId string) {
	lockName := fmt.Sprintf("projection:%s", ownerId)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}

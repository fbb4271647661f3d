package notificationstore

import (
	dbmodels "estate-tracker-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Notification) (id string, err error)
	ListByUser(userID string, onlyUnread bool, page, limit int) (list []dbmodels.Notification, rowCount int64, err error)
	MarkRead(userID string, ids []string) error
	CountUnread(userID string) (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Notification) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) ListByUser(userID string, onlyUnread bool, page, limit int) (list []dbmodels.Notification, rowCount int64, err error) {
	query := func() *gorm.DB {
		tx := i.db.Model(dbmodels.Notification{}).
			Where("user_id = ?", userID)
		if onlyUnread {
			tx = tx.Where("is_read = ?", false)
		}
		return tx
	}
	err = query().Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	tx := query().Order("created_at desc")
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		tx = tx.Limit(limit).Offset((page - 1) * limit)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}

// MarkRead пустой список ids - отметить все
func (i impl) MarkRead(userID string, ids []string) error {
	tx := i.db.Model(dbmodels.Notification{}).
		Where("user_id = ?", userID).
		Where("is_read = ?", false)
	if len(ids) > 0 {
		tx = tx.Where("id in (?)", ids)
	}
	return tx.Update("is_read", true).Error
}

func (i impl) CountUnread(userID string) (count int64, err error) {
	err = i.db.Model(dbmodels.Notification{}).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Count(&count).
		Error
	return count, err
}

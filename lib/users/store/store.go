package userstore

import (
	"estate-tracker-backend/models"
	dbmodels "estate-tracker-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.User) (userID string, err error)
	GetByID(userID string) (*dbmodels.User, error)
	FindByEmail(email string) (*dbmodels.User, error)
	Update(userID string, updMap map[string]interface{}) error
	Delete(userID string) error
	List(filter Filter) (list []dbmodels.User, rowCount int64, err error)
	ListByRoles(roles []models.UserRole) ([]dbmodels.User, error)
}

type Filter struct {
	Search string
	Role   models.UserRole
	Page   int
	Limit  int
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.User) (userID string, err error) {
	rec.Email = strings.ToLower(strings.TrimSpace(rec.Email))
	if rec.Email == "" {
		return "", errors.New("email не указан")
	}
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(userID string) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
		Where("id = ?", userID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) FindByEmail(email string) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(userID string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.User{}).
		Where("id = ?", userID).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("запись не найдена")
	}
	return nil
}

func (i impl) Delete(userID string) error {
	return i.db.
		Where("id = ?", userID).
		Delete(&dbmodels.User{}).
		Error
}

func (i impl) List(filter Filter) (list []dbmodels.User, rowCount int64, err error) {
	if err = i.applyFilter(filter).Count(&rowCount).Error; err != nil {
		return nil, 0, err
	}
	tx := i.applyFilter(filter)
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit).Offset((filter.Page - 1) * filter.Limit)
	}
	err = tx.
		Order("last_name").
		Order("first_name").
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}

func (i impl) applyFilter(filter Filter) *gorm.DB {
	tx := i.db.Model(&dbmodels.User{})
	if filter.Role != "" {
		tx = tx.Where("role = ?", filter.Role)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		tx = tx.Where("lower(first_name) like ? or lower(last_name) like ? or lower(email) like ?", like, like, like)
	}
	return tx
}

func (i impl) ListByRoles(roles []models.UserRole) (list []dbmodels.User, err error) {
	if len(roles) == 0 {
		return []dbmodels.User{}, nil
	}
	err = i.db.
		Where("role in (?)", roles).
		Where("is_active = ?", true).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

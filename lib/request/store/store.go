package requeststore

import (
	"estate-tracker-backend/models"
	dbmodels "estate-tracker-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Request) (id string, err error)
	GetByID(id string) (*dbmodels.Request, error)
	// CompareAndUpdate обновляет заявку только если assigned_to и status не изменились с момента чтения
	CompareAndUpdate(id string, expected dbmodels.RequestState, updMap map[string]interface{}) (updated bool, err error)
	List(filter Filter) (list []dbmodels.Request, rowCount int64, err error)
	CountBy(column string, filter Filter) (map[string]int64, error)
	Count(filter Filter) (int64, error)
	Delete(id string) error
}

type Filter struct {
	Kind        models.RequestKind
	RequestType string
	Statuses    []models.RequestStatus
	AssignedTo  string
	SubmittedBy string
	ProjectID   string
	Search      string
	Page        int
	Limit       int
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Request) (id string, err error) {
	err = i.db.
		Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Request, error) {
	rec := dbmodels.Request{}
	err := i.db.
		Where("id = ?", id).
		Preload("Project").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at")
		}).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at")
		}).
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

func (i impl) CompareAndUpdate(id string, expected dbmodels.RequestState, updMap map[string]interface{}) (updated bool, err error) {
	tx := i.db.
		Model(&dbmodels.Request{}).
		Where("id = ?", id).
		Where("assigned_to = ?", expected.AssignedTo).
		Where("status = ?", expected.Status).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (i impl) List(filter Filter) (list []dbmodels.Request, rowCount int64, err error) {
	rowCount, err = i.Count(filter)
	if err != nil {
		return nil, 0, err
	}
	tx := i.applyFilter(i.db.Model(&dbmodels.Request{}), filter)
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		tx = tx.Limit(filter.Limit).Offset((page - 1) * filter.Limit)
	}
	err = tx.
		Preload("Project").
		Order("updated_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}

func (i impl) Count(filter Filter) (rowCount int64, err error) {
	err = i.applyFilter(i.db.Model(&dbmodels.Request{}), filter).
		Count(&rowCount).
		Error
	return rowCount, err
}

// CountBy количество заявок в разрезе колонки status или kind
func (i impl) CountBy(column string, filter Filter) (map[string]int64, error) {
	if column != "status" && column != "kind" {
		return nil, errors.Errorf("группировка по колонке %v не поддерживается", column)
	}
	type row struct {
		Value string
		Total int64
	}
	rows := []row{}
	err := i.applyFilter(i.db.Model(&dbmodels.Request{}), filter).
		Select(column + " as value, count(*) as total").
		Group(column).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, item := range rows {
		result[item.Value] += item.Total
	}
	return result, nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.Request{BaseModel: dbmodels.BaseModel{ID: id}}
	return i.db.
		Delete(&rec).
		Error
}

func (i impl) applyFilter(tx *gorm.DB, filter Filter) *gorm.DB {
	if filter.Kind != "" {
		tx = tx.Where("kind = ?", filter.Kind)
	}
	if filter.RequestType != "" {
		tx = tx.Where("request_type = ?", filter.RequestType)
	}
	if len(filter.Statuses) != 0 {
		// в старых записях встречаются синонимы статусов
		tx = tx.Where("lower(trim(status)) in (?)", models.StatusVariants(filter.Statuses))
	}
	if filter.AssignedTo != "" {
		tx = tx.Where("lower(assigned_to) = ?", strings.ToLower(strings.TrimSpace(filter.AssignedTo)))
	}
	if filter.SubmittedBy != "" {
		tx = tx.Where("lower(submitted_by) = ?", strings.ToLower(strings.TrimSpace(filter.SubmittedBy)))
	}
	if filter.ProjectID != "" {
		tx = tx.Where("project_id = ?", filter.ProjectID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		tx = tx.Where("lower(title) like ?", "%"+strings.ToLower(search)+"%")
	}
	return tx
}

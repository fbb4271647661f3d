package dbmodels

import (
	"estate-tracker-backend/models"
	"time"

	"gorm.io/gorm"
)

type Request struct {
	BaseModel
	Kind            models.RequestKind   `gorm:"type:varchar(20);index"`
	RequestType     string               `gorm:"type:varchar(100);index"`
	Title           string               `gorm:"type:varchar(255)"`
	Status          models.RequestStatus `gorm:"type:varchar(50);index"`
	AssignedTo      string               `gorm:"type:varchar(255);index"`
	CcLabel         string               `gorm:"type:text"`
	SubmittedBy     string               `gorm:"type:varchar(255);index"`
	SubmittedByName string               `gorm:"type:varchar(255)"`
	ProjectID       *string              `gorm:"type:varchar(36);index"`
	Project         *Project
	Technical       *TechnicalDetails   `gorm:"type:text;serializer:json"`
	Clearance       *ClearanceDetails   `gorm:"type:text;serializer:json"`
	Comments        []RequestComment    `gorm:"foreignKey:RequestID"`
	Attachments     []RequestAttachment `gorm:"foreignKey:RequestID"`
}

// RequestState поля, по которым выполняется условное обновление при согласовании
type RequestState struct {
	AssignedTo string
	Status     models.RequestStatus
}

func (r Request) State() RequestState {
	return RequestState{
		AssignedTo: r.AssignedTo,
		Status:     r.Status,
	}
}

// TechnicalDetails технический запрос / взаимодействие с гос. органами
type TechnicalDetails struct {
	ServiceType   string `json:"service_type"`
	Authority     string `json:"authority"` // гос. орган
	PlotNumber    string `json:"plot_number"`
	UnitNumber    string `json:"unit_number"`
	Description   string `json:"description"`
	ExpectedDate  string `json:"expected_date"`
	ReferenceCode string `json:"reference_code"`
}

// ClearanceDetails заявка на освобождение (передачу) права собственности
type ClearanceDetails struct {
	DeedNumber       string  `json:"deed_number"`
	DeedDate         string  `json:"deed_date"`
	OwnerName        string  `json:"owner_name"`
	OwnerNationalID  string  `json:"owner_national_id"`
	BeneficiaryName  string  `json:"beneficiary_name"`
	PropertyLocation string  `json:"property_location"`
	UnitNumber       string  `json:"unit_number"`
	Area             float64 `json:"area"`
	MeterNumber      string  `json:"meter_number"`
	Notes            string  `json:"notes"`
}

type RequestComment struct {
	BaseModel
	RequestID  string `gorm:"type:varchar(36);index"`
	Author     string `gorm:"type:varchar(255)"` // почта или "النظام"
	AuthorName string `gorm:"type:varchar(255)"`
	Content    string
	Decision   string `gorm:"type:varchar(20)"` // approve/reject для записей о решении
	IsSystem   bool
}

type RequestAttachment struct {
	BaseModel
	RequestID   string `gorm:"type:varchar(36);index"`
	FileName    string `gorm:"type:varchar(255)"`
	ObjectKey   string `gorm:"type:varchar(512)"`
	ContentType string `gorm:"type:varchar(255)"`
	Size        int64
	UploadedBy  string `gorm:"type:varchar(255)"`
}

func (r *Request) AfterDelete(tx *gorm.DB) (err error) {
	if r.ID == "" {
		return nil
	}
	tx.Where("request_id = ?", r.ID).Delete(&RequestComment{})
	tx.Where("request_id = ?", r.ID).Delete(&RequestAttachment{})
	return
}

func (r Request) LastDecisionAt() *time.Time {
	for idx := len(r.Comments) - 1; idx >= 0; idx-- {
		if r.Comments[idx].Decision != "" {
			t := r.Comments[idx].CreatedAt
			return &t
		}
	}
	return nil
}

package requestapimodels

import (
	"estate-tracker-backend/models"
	apimodels "estate-tracker-backend/models/api"
	dbmodels "estate-tracker-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type RequestDraft struct {
	Kind        models.RequestKind         `json:"kind"`         // technical/clearance
	RequestType string                     `json:"request_type"` // если не указан - по виду заявки
	Title       string                     `json:"title"`
	ProjectID   *string                    `json:"project_id"`
	Technical   *dbmodels.TechnicalDetails `json:"technical,omitempty"`
	Clearance   *dbmodels.ClearanceDetails `json:"clearance,omitempty"`
}

func (r RequestDraft) Validate() error {
	if !r.Kind.IsValid() {
		return errors.New("указан неизвестный вид заявки")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("не указан заголовок заявки")
	}
	switch r.Kind {
	case models.TechnicalKind:
		if r.Technical == nil {
			return errors.New("не заполнены данные технической заявки")
		}
		if strings.TrimSpace(r.Technical.ServiceType) == "" {
			return errors.New("не указан вид услуги")
		}
	case models.ClearanceKind:
		if r.Clearance == nil {
			return errors.New("не заполнены данные заявки на освобождение")
		}
		if strings.TrimSpace(r.Clearance.DeedNumber) == "" {
			return errors.New("не указан номер документа о праве собственности")
		}
		if strings.TrimSpace(r.Clearance.OwnerName) == "" {
			return errors.New("не указан собственник")
		}
	}
	return nil
}

// GetRequestType тип маршрута согласования
func (r RequestDraft) GetRequestType() models.RequestType {
	if requestType := models.NormalizeRequestType(r.RequestType); requestType != "" {
		return requestType
	}
	return r.Kind.DefaultRequestType()
}

type DecisionData struct {
	Decision models.Decision `json:"decision"` // approve/reject
	Reason   string          `json:"reason"`   // обязательна при отклонении
}

func (r DecisionData) Validate() error {
	if !r.Decision.IsValid() {
		return errors.New("указано неизвестное решение")
	}
	if r.Decision == models.DecisionReject && strings.TrimSpace(r.Reason) == "" {
		return errors.New("не указана причина отклонения")
	}
	return nil
}

type CommentData struct {
	Content string `json:"content"`
}

func (r CommentData) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return errors.New("комментарий не должен быть пустым")
	}
	return nil
}

type CancelData struct {
	Reason string `json:"reason"`
}

type ReassignData struct {
	AssignedTo string `json:"assigned_to"` // почта согласующего из маршрута
}

func (r ReassignData) Validate() error {
	if strings.TrimSpace(r.AssignedTo) == "" {
		return errors.New("не указан согласующий")
	}
	return nil
}

type RequestFilter struct {
	apimodels.Pagination
	Kind          models.RequestKind   `json:"kind"`
	RequestType   string               `json:"request_type"`
	Status        models.RequestStatus `json:"status"`
	ProjectID     string               `json:"project_id"`
	Search        string               `json:"search"`
	AssignedToMe  bool                 `json:"assigned_to_me"`
	SubmittedByMe bool                 `json:"submitted_by_me"`
}

type DecisionResult struct {
	RequestID  string               `json:"request_id"`
	Status     models.RequestStatus `json:"status"`
	AssignedTo string               `json:"assigned_to"`
	Outcome    string               `json:"outcome"` // advanced/approved/rejected/cancelled/reassigned
}

type CommentView struct {
	ID         string    `json:"id"`
	Author     string    `json:"author"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	Decision   string    `json:"decision,omitempty"`
	IsSystem   bool      `json:"is_system"`
	CreatedAt  time.Time `json:"created_at"`
}

func CommentConvert(rec dbmodels.RequestComment) CommentView {
	return CommentView{
		ID:         rec.ID,
		Author:     rec.Author,
		AuthorName: rec.AuthorName,
		Content:    rec.Content,
		Decision:   rec.Decision,
		IsSystem:   rec.IsSystem,
		CreatedAt:  rec.CreatedAt,
	}
}

type AttachmentView struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func AttachmentConvert(rec dbmodels.RequestAttachment) AttachmentView {
	return AttachmentView{
		ID:          rec.ID,
		FileName:    rec.FileName,
		ContentType: rec.ContentType,
		Size:        rec.Size,
		UploadedBy:  rec.UploadedBy,
		CreatedAt:   rec.CreatedAt,
	}
}

type Dashboard struct {
	PendingForMe  int64            `json:"pending_for_me"`
	SubmittedByMe int64            `json:"submitted_by_me"`
	ByStatus      map[string]int64 `json:"by_status"`
	ByKind        map[string]int64 `json:"by_kind"`
}

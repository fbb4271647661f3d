package routeapimodels

import (
	"estate-tracker-backend/models"
	dbmodels "estate-tracker-backend/models/db"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/pkg/errors"
)

type WorkflowRouteData struct {
	RequestType string   `json:"request_type"` // тип заявки TECHNICAL_SECTION/DEED_CLEARANCE/METER_TRANSFER или свой
	Label       string   `json:"label"`
	Sequence    []string `json:"assigned_to_sequence"` // почты согласующих по порядку
	CcList      []string `json:"cc_list"`
	NotifyRoles []string `json:"notify_roles"`
	IsActive    *bool    `json:"is_active"`
}

func (r WorkflowRouteData) Validate() error {
	if models.NormalizeRequestType(r.RequestType) == "" {
		return errors.New("не указан тип заявки")
	}
	if len(r.Sequence) == 0 {
		return errors.New("цепочка согласования должна содержать хотя бы одного согласующего")
	}
	seen := map[string]bool{}
	for _, email := range r.Sequence {
		email = strings.ToLower(strings.TrimSpace(email))
		if !govalidator.IsEmail(email) {
			return errors.Errorf("некорректная почта согласующего: %v", email)
		}
		if seen[email] {
			return errors.Errorf("согласующий указан в цепочке дважды: %v", email)
		}
		seen[email] = true
	}
	for _, email := range r.CcList {
		if !govalidator.IsEmail(strings.TrimSpace(email)) {
			return errors.Errorf("некорректная почта в списке копии: %v", email)
		}
	}
	for _, role := range r.NotifyRoles {
		if !models.UserRole(role).IsValid() {
			return errors.Errorf("неизвестная роль: %v", role)
		}
	}
	return nil
}

func (r WorkflowRouteData) ToDbModel(rec *dbmodels.WorkflowRoute) {
	rec.RequestType = string(models.NormalizeRequestType(r.RequestType))
	rec.Label = strings.TrimSpace(r.Label)
	rec.SetSequence(trimList(r.Sequence))
	rec.CcList = trimList(r.CcList)
	rec.NotifyRoles = r.NotifyRoles
	if rec.NotifyRoles == nil {
		rec.NotifyRoles = []string{}
	}
	if r.IsActive != nil {
		rec.IsActive = *r.IsActive
	}
}

type WorkflowRouteView struct {
	WorkflowRouteData
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
}

func WorkflowRouteConvert(rec dbmodels.WorkflowRoute) WorkflowRouteView {
	isActive := rec.IsActive
	return WorkflowRouteView{
		WorkflowRouteData: WorkflowRouteData{
			RequestType: rec.RequestType,
			Label:       rec.Label,
			Sequence:    rec.Sequence(),
			CcList:      rec.CcList,
			NotifyRoles: rec.NotifyRoles,
			IsActive:    &isActive,
		},
		ID:        rec.ID,
		UpdatedAt: rec.UpdatedAt,
	}
}

type RouteStepView struct {
	Order int    `json:"order"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RouteDescription маршрут с именами согласующих
type RouteDescription struct {
	RequestType string          `json:"request_type"`
	Label       string          `json:"label"`
	Source      string          `json:"source"` // snapshot/store/stale_snapshot/default
	Steps       []RouteStepView `json:"steps"`
	CcList      []string        `json:"cc_list"`
	NotifyRoles []string        `json:"notify_roles"`
}

func trimList(list []string) []string {
	result := make([]string, 0, len(list))
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

type RouteActiveData struct {
	IsActive bool `json:"is_active"`
}

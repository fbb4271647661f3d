package dbmodels

import (
	"encoding/json"
	"strings"
)

type WorkflowRoute struct {
	BaseModel
	RequestType        string   `gorm:"type:varchar(100);index"`
	Label              string   `gorm:"type:varchar(255)"`
	AssignedToSequence string   `gorm:"type:text"` // json список почт согласующих
	CcList             []string `gorm:"type:text;serializer:json"`
	NotifyRoles        []string `gorm:"type:text;serializer:json"`
	IsActive           bool     `gorm:"index"`
}

// Sequence декодирует цепочку согласующих.
// Если значение не является json списком - считаем что это одна почта.
func (r WorkflowRoute) Sequence() []string {
	return DecodeSequence(r.AssignedToSequence)
}

func (r *WorkflowRoute) SetSequence(list []string) {
	data, _ := json.Marshal(list)
	r.AssignedToSequence = string(data)
}

func DecodeSequence(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		// одна почта могла быть сохранена как json строка
		var single string
		if json.Unmarshal([]byte(raw), &single) == nil {
			single = strings.TrimSpace(single)
			if single == "" {
				return []string{}
			}
			return []string{single}
		}
		return []string{raw}
	}
	result := make([]string, 0, len(list))
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

package models

import "strings"

type UserRole string

const (
	AdminRole      UserRole = "ADMIN"
	PRManagerRole  UserRole = "PR_MANAGER"
	TechnicalRole  UserRole = "TECHNICAL"
	ConveyanceRole UserRole = "CX"
)

var AllRoles = []UserRole{AdminRole, PRManagerRole, TechnicalRole, ConveyanceRole}

var roleHumanName = map[UserRole]string{
	AdminRole:      "مدير النظام",
	PRManagerRole:  "مدير العلاقات العامة",
	TechnicalRole:  "القسم الفني",
	ConveyanceRole: "قسم الإفراغ",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == AdminRole
}

func (r UserRole) IsValid() bool {
	_, ok := roleHumanName[r]
	return ok
}

func ParseRoles(values []string) []UserRole {
	result := make([]UserRole, 0, len(values))
	for _, value := range values {
		role := UserRole(strings.ToUpper(strings.TrimSpace(value)))
		if role.IsValid() {
			result = append(result, role)
		}
	}
	return result
}

func RolesToStrings(roles []UserRole) []string {
	result := make([]string, 0, len(roles))
	for _, role := range roles {
		result = append(result, string(role))
	}
	return result
}

const SystemUser = "النظام"

// Actor - пользователь, выполняющий действие. Email - идентификатор в цепочке согласования
type Actor struct {
	ID    string
	Email string
	Name  string
	Role  UserRole
}

func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Email
}

// SameIdentity сравнение почтовых идентификаторов без учета регистра
func SameIdentity(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}

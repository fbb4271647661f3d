package rbac

import (
	"estate-tracker-backend/models"
	"regexp"
)

type HTTPMethod string

const (
	GET    HTTPMethod = "GET"
	POST   HTTPMethod = "POST"
	PUT    HTTPMethod = "PUT"
	DELETE HTTPMethod = "DELETE"
	ALL    HTTPMethod = "ALL" // правило для любого метода
)

// PathRule правила одного метода: точные пути проверяются раньше шаблонов
type PathRule struct {
	Exact    map[string]models.RbacFunc
	Patterns []PatternRule
}

type PatternRule struct {
	Path    string
	Pattern *regexp.Regexp
	Handler models.RbacFunc
}

func newPathRule() *PathRule {
	return &PathRule{
		Exact:    map[string]models.RbacFunc{},
		Patterns: []PatternRule{},
	}
}

func (r *PathRule) find(path string) (models.RbacFunc, bool) {
	if r == nil {
		return nil, false
	}
	if handler, ok := r.Exact[path]; ok {
		return handler, true
	}
	for _, rule := range r.Patterns {
		if rule.Pattern.MatchString(path) {
			return rule.Handler, true
		}
	}
	return nil, false
}

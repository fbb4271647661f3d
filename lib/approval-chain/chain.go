package approvalchain

import (
	"estate-tracker-backend/models"
	dbmodels "estate-tracker-backend/models/db"
	"strings"
)

// NameResolver возвращает отображаемое имя по почте, пустая строка - имя неизвестно
type NameResolver func(email string) string

type Step struct {
	Email  string
	Name   string
	Order  int
	Status models.StepStatus
}

type Chain struct {
	Steps []Step
	// CurrentUnresolved текущий согласующий не найден в маршруте (маршрут изменился после назначения)
	CurrentUnresolved bool
	// Reviewers участники цепочки, оставившие комментарии
	Reviewers []string
}

func (c Chain) IsEmpty() bool {
	return len(c.Steps) == 0
}

// Current индекс текущего шага, -1 если такого нет
func (c Chain) Current() int {
	for idx, step := range c.Steps {
		if step.Status == models.StepCurrent {
			return idx
		}
	}
	return -1
}

func (c Chain) ApprovedCount() int {
	count := 0
	for _, step := range c.Steps {
		if step.Status == models.StepApproved {
			count++
		}
	}
	return count
}

// Build строит цепочку согласования для отображения.
// Статусы шагов определяются только маршрутом, текущим согласующим и статусом заявки,
// комментарии используются лишь для списка участников.
func Build(sequence []string, currentAssignee string, status models.RequestStatus, comments []dbmodels.RequestComment, resolve NameResolver) Chain {
	chain := Chain{
		Steps:     []Step{},
		Reviewers: []string{},
	}
	if len(sequence) == 0 {
		return chain
	}
	for idx, email := range sequence {
		chain.Steps = append(chain.Steps, Step{
			Email:  email,
			Name:   displayName(email, resolve),
			Order:  idx,
			Status: models.StepPending,
		})
	}
	chain.Reviewers = reviewers(sequence, comments, resolve)

	if status.IsApprovedLike() {
		for idx := range chain.Steps {
			chain.Steps[idx].Status = models.StepApproved
		}
		return chain
	}

	current := IndexOf(sequence, currentAssignee)
	if current < 0 {
		chain.CurrentUnresolved = true
		return chain
	}
	for idx := 0; idx < current; idx++ {
		chain.Steps[idx].Status = models.StepApproved
	}
	if status.IsRejectedLike() {
		chain.Steps[current].Status = models.StepRejected
	} else {
		chain.Steps[current].Status = models.StepCurrent
	}
	return chain
}

// IndexOf позиция почты в маршруте без учета регистра, -1 если не найдена
func IndexOf(sequence []string, email string) int {
	for idx, item := range sequence {
		if models.SameIdentity(item, email) {
			return idx
		}
	}
	return -1
}

func displayName(email string, resolve NameResolver) string {
	if resolve == nil {
		return email
	}
	if name := strings.TrimSpace(resolve(email)); name != "" {
		return name
	}
	return email
}

func reviewers(sequence []string, comments []dbmodels.RequestComment, resolve NameResolver) []string {
	result := []string{}
	seen := map[string]bool{}
	for _, comment := range comments {
		if comment.IsSystem {
			continue
		}
		if IndexOf(sequence, comment.Author) < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(comment.Author))
		if seen[key] {
			continue
		}
		seen[key] = true
		name := comment.AuthorName
		if name == "" {
			name = displayName(comment.Author, resolve)
		}
		result = append(result, name)
	}
	return result
}

package requestapimodels

import (
	approvalchain "estate-tracker-backend/lib/approval-chain"
	"estate-tracker-backend/models"
	"fmt"
)

const unresolvedStepLabel = "غير محدد"

type ChainStepView struct {
	Order      int               `json:"order"`
	Email      string            `json:"email"`
	Name       string            `json:"name"`
	Status     models.StepStatus `json:"status"`
	StatusName string            `json:"status_name"`
}

// ChainView полная цепочка согласования для карточки заявки
type ChainView struct {
	Steps             []ChainStepView `json:"steps"`
	CurrentUnresolved bool            `json:"current_unresolved"`
	Reviewers         []string        `json:"reviewers"`
	Progress          string          `json:"progress"`
}

// CompactChainView строка таблицы: текущий шаг и прогресс k/n
type CompactChainView struct {
	CurrentStep       string `json:"current_step"`
	Approved          int    `json:"approved"`
	Total             int    `json:"total"`
	Progress          string `json:"progress"`
	CurrentUnresolved bool   `json:"current_unresolved"`
}

func ChainConvert(chain approvalchain.Chain) ChainView {
	result := ChainView{
		Steps:             make([]ChainStepView, 0, len(chain.Steps)),
		CurrentUnresolved: chain.CurrentUnresolved,
		Reviewers:         chain.Reviewers,
		Progress:          progress(chain),
	}
	for _, step := range chain.Steps {
		result.Steps = append(result.Steps, ChainStepView{
			Order:      step.Order,
			Email:      step.Email,
			Name:       step.Name,
			Status:     step.Status,
			StatusName: step.Status.ToHuman(),
		})
	}
	return result
}

func CompactChainConvert(chain approvalchain.Chain, status models.RequestStatus) CompactChainView {
	result := CompactChainView{
		Approved:          chain.ApprovedCount(),
		Total:             len(chain.Steps),
		Progress:          progress(chain),
		CurrentUnresolved: chain.CurrentUnresolved,
	}
	switch {
	case chain.IsEmpty():
	case chain.CurrentUnresolved:
		result.CurrentStep = unresolvedStepLabel
	case status.IsTerminal():
		result.CurrentStep = status.ToHuman()
	default:
		if current := chain.Current(); current >= 0 {
			result.CurrentStep = chain.Steps[current].Name
		}
	}
	return result
}

func progress(chain approvalchain.Chain) string {
	if chain.IsEmpty() {
		return ""
	}
	return fmt.Sprintf("%d/%d", chain.ApprovedCount(), len(chain.Steps))
}

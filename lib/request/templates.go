package requesthandler

import (
	workflowerrors "estate-tracker-backend/lib/workflow-errors"
	requestapimodels "estate-tracker-backend/models/api/request"

	"github.com/pkg/errors"
)

// записи истории заявки
const (
	submittedTemplate  = "تم تقديم الطلب وإسناده إلى %s"
	advancedTemplate   = "تمت الموافقة من %s وتحويل الطلب إلى %s"
	approvedTemplate   = "تمت الموافقة النهائية من %s"
	rejectedTemplate   = "تم رفض الطلب من %s. السبب: %s"
	cancelledTemplate  = "تم إلغاء الطلب من %s"
	reassignedTemplate = "تمت إعادة إسناد الطلب من %s إلى %s بواسطة %s"
)

const decisionCancel = "cancel"

const (
	outcomeAdvanced   = "advanced"
	outcomeApproved   = "approved"
	outcomeRejected   = "rejected"
	outcomeCancelled  = "cancelled"
	outcomeReassigned = "reassigned"
)

func outcomeLabel(result requestapimodels.DecisionResult, err error) string {
	switch {
	case err == nil:
		return result.Outcome
	case errors.Is(err, workflowerrors.ErrPermissionDenied):
		return "denied"
	case errors.Is(err, workflowerrors.ErrConcurrentUpdate):
		return "conflict"
	case errors.Is(err, workflowerrors.ErrTerminalState):
		return "terminal"
	case errors.Is(err, workflowerrors.ErrStaleAssignee):
		return "stale"
	}
	return "error"
}

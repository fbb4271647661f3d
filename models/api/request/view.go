package requestapimodels

import (
	approvalchain "estate-tracker-backend/lib/approval-chain"
	"estate-tracker-backend/models"
	dbmodels "estate-tracker-backend/models/db"
	"time"
)

type RequestRow struct {
	ID              string               `json:"id"`
	Kind            models.RequestKind   `json:"kind"`
	KindName        string               `json:"kind_name"`
	RequestType     string               `json:"request_type"`
	Title           string               `json:"title"`
	Status          models.RequestStatus `json:"status"`
	StatusName      string               `json:"status_name"`
	AssignedTo      string               `json:"assigned_to"`
	SubmittedBy     string               `json:"submitted_by"`
	SubmittedByName string               `json:"submitted_by_name"`
	ProjectID       *string              `json:"project_id"`
	ProjectName     string               `json:"project_name"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	CanAct          bool                 `json:"can_act"` // текущий пользователь может принять решение
	Chain           CompactChainView     `json:"chain"`
}

type RequestView struct {
	RequestRow
	CcLabel     string                     `json:"cc_label"`
	Technical   *dbmodels.TechnicalDetails `json:"technical,omitempty"`
	Clearance   *dbmodels.ClearanceDetails `json:"clearance,omitempty"`
	Comments    []CommentView              `json:"comments"`
	Attachments []AttachmentView           `json:"attachments"`
	FullChain   ChainView                  `json:"full_chain"`
}

func RowConvert(rec dbmodels.Request, chain approvalchain.Chain, actor models.Actor) RequestRow {
	status := rec.Status.Normalize()
	result := RequestRow{
		ID:              rec.ID,
		Kind:            rec.Kind,
		KindName:        rec.Kind.ToHuman(),
		RequestType:     rec.RequestType,
		Title:           rec.Title,
		Status:          status,
		StatusName:      status.ToHuman(),
		AssignedTo:      rec.AssignedTo,
		SubmittedBy:     rec.SubmittedBy,
		SubmittedByName: rec.SubmittedByName,
		ProjectID:       rec.ProjectID,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
		CanAct:          !status.IsTerminal() && approvalchain.CanAct(actor, rec.AssignedTo),
		Chain:           CompactChainConvert(chain, status),
	}
	if rec.Project != nil {
		result.ProjectName = rec.Project.Name
	}
	return result
}

func ViewConvert(rec dbmodels.Request, chain approvalchain.Chain, actor models.Actor) RequestView {
	result := RequestView{
		RequestRow:  RowConvert(rec, chain, actor),
		CcLabel:     rec.CcLabel,
		Technical:   rec.Technical,
		Clearance:   rec.Clearance,
		Comments:    make([]CommentView, 0, len(rec.Comments)),
		Attachments: make([]AttachmentView, 0, len(rec.Attachments)),
		FullChain:   ChainConvert(chain),
	}
	for _, comment := range rec.Comments {
		result.Comments = append(result.Comments, CommentConvert(comment))
	}
	for _, attachment := range rec.Attachments {
		result.Attachments = append(result.Attachments, AttachmentConvert(attachment))
	}
	return result
}

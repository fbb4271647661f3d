package models

import "strings"

// RequestKind - дискриминатор вида заявки
type RequestKind string

const (
	TechnicalKind RequestKind = "technical"
	ClearanceKind RequestKind = "clearance"
)

func (k RequestKind) IsValid() bool {
	return k == TechnicalKind || k == ClearanceKind
}

var kindHumanName = map[RequestKind]string{
	TechnicalKind: "طلب فني",
	ClearanceKind: "طلب إفراغ",
}

func (k RequestKind) ToHuman() string {
	if human, exist := kindHumanName[k]; exist {
		return human
	}
	return string(k)
}

type RequestType string

const (
	TechnicalSectionType RequestType = "TECHNICAL_SECTION"
	DeedClearanceType    RequestType = "DEED_CLEARANCE"
	MeterTransferType    RequestType = "METER_TRANSFER"
)

func NormalizeRequestType(raw string) RequestType {
	return RequestType(strings.ToUpper(strings.TrimSpace(raw)))
}

// DefaultRequestType тип маршрута по умолчанию для вида заявки
func (k RequestKind) DefaultRequestType() RequestType {
	if k == ClearanceKind {
		return DeedClearanceType
	}
	return TechnicalSectionType
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject
}

// StepStatus статус шага цепочки согласования для отображения
type StepStatus string

const (
	StepApproved StepStatus = "approved"
	StepCurrent  StepStatus = "current"
	StepPending  StepStatus = "pending"
	StepRejected StepStatus = "rejected"
)

var stepHumanName = map[StepStatus]string{
	StepApproved: "تمت الموافقة",
	StepCurrent:  "بانتظار الإجراء",
	StepPending:  "لم يصل بعد",
	StepRejected: "مرفوض",
}

func (s StepStatus) ToHuman() string {
	if human, exist := stepHumanName[s]; exist {
		return human
	}
	return string(s)
}

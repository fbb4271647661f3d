package models

import (
	"sort"
	"strings"
)

type RequestStatus string

const (
	StatusNew                 RequestStatus = "new"
	StatusPending             RequestStatus = "pending"
	StatusInProgress          RequestStatus = "in_progress"
	StatusUnderReview         RequestStatus = "under_review"
	StatusPendingModification RequestStatus = "pending_modification"
	StatusApproved            RequestStatus = "approved"
	StatusCompleted           RequestStatus = "completed"
	StatusRejected            RequestStatus = "rejected"
	StatusCancelled           RequestStatus = "cancelled"
)

// ActiveStatuses статусы заявок, ожидающих решения
var ActiveStatuses = []RequestStatus{
	StatusNew,
	StatusPending,
	StatusInProgress,
	StatusUnderReview,
	StatusPendingModification,
}

var statusHumanName = map[RequestStatus]string{
	StatusNew:                 "جديد",
	StatusPending:             "قيد الانتظار",
	StatusInProgress:          "قيد التنفيذ",
	StatusUnderReview:         "قيد المراجعة",
	StatusPendingModification: "بانتظار التعديل",
	StatusApproved:            "معتمد",
	StatusCompleted:           "مكتمل",
	StatusRejected:            "مرفوض",
	StatusCancelled:           "ملغي",
}

// синонимы из старых выгрузок и ручного ввода
var statusSynonyms = map[string]RequestStatus{
	"جديد":            StatusNew,
	"جديدة":           StatusNew,
	"قيد الانتظار":    StatusPending,
	"معلق":            StatusPending,
	"معلقة":           StatusPending,
	"قيد التنفيذ":     StatusInProgress,
	"جاري العمل":      StatusInProgress,
	"قيد المراجعة":    StatusUnderReview,
	"تحت المراجعة":    StatusUnderReview,
	"بانتظار التعديل": StatusPendingModification,
	"يحتاج تعديل":     StatusPendingModification,
	"معتمد":           StatusApproved,
	"معتمدة":          StatusApproved,
	"موافق عليه":      StatusApproved,
	"تمت الموافقة":    StatusApproved,
	"مكتمل":           StatusCompleted,
	"مكتملة":          StatusCompleted,
	"منجز":            StatusCompleted,
	"مرفوض":           StatusRejected,
	"مرفوضة":          StatusRejected,
	"ملغي":            StatusCancelled,
	"ملغى":            StatusCancelled,
	"ملغاة":           StatusCancelled,
	"canceled":        StatusCancelled,
	"done":            StatusCompleted,
	"in progress":     StatusInProgress,
	"under review":    StatusUnderReview,
}

// NormalizeStatus приводит значение статуса (в т.ч. арабские синонимы) к словарю статусов.
// Неизвестное значение возвращается как есть в нижнем регистре.
func NormalizeStatus(raw string) RequestStatus {
	value := strings.TrimSpace(raw)
	if value == "" {
		return StatusNew
	}
	lower := strings.ToLower(value)
	if _, ok := statusHumanName[RequestStatus(lower)]; ok {
		return RequestStatus(lower)
	}
	if status, ok := statusSynonyms[lower]; ok {
		return status
	}
	if status, ok := statusSynonyms[value]; ok {
		return status
	}
	return RequestStatus(lower)
}

// StatusVariants значения колонки status в нижнем регистре, которые приводятся к указанным статусам
func StatusVariants(statuses []RequestStatus) []string {
	wanted := map[RequestStatus]bool{}
	for _, status := range statuses {
		wanted[status.Normalize()] = true
	}
	result := make([]string, 0, len(wanted))
	for status := range wanted {
		result = append(result, string(status))
		if status == StatusNew {
			result = append(result, "")
		}
	}
	for synonym, status := range statusSynonyms {
		if wanted[status] {
			result = append(result, strings.ToLower(synonym))
		}
	}
	sort.Strings(result)
	return result
}

func (s RequestStatus) Normalize() RequestStatus {
	return NormalizeStatus(string(s))
}

func (s RequestStatus) ToHuman() string {
	if human, exist := statusHumanName[s.Normalize()]; exist {
		return human
	}
	return string(s)
}

func (s RequestStatus) IsKnown() bool {
	_, ok := statusHumanName[s.Normalize()]
	return ok
}

func (s RequestStatus) IsApprovedLike() bool {
	switch s.Normalize() {
	case StatusApproved, StatusCompleted:
		return true
	}
	return false
}

func (s RequestStatus) IsRejectedLike() bool {
	switch s.Normalize() {
	case StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func (s RequestStatus) IsTerminal() bool {
	return s.IsApprovedLike() || s.IsRejectedLike()
}

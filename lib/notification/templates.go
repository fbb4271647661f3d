package notificationhandler

import (
	"estate-tracker-backend/lib/events"
	"estate-tracker-backend/models"
	"fmt"
)

const (
	submittedMsg  = "طلب جديد «%s» من %s بانتظار موافقة %s"
	advancedMsg   = "وافق %s على الطلب «%s» وتم تحويله إلى %s"
	approvedMsg   = "تمت الموافقة النهائية على الطلب «%s» من %s"
	rejectedMsg   = "تم رفض الطلب «%s» من %s. السبب: %s"
	cancelledMsg  = "تم إلغاء الطلب «%s» من %s"
	reassignedMsg = "تمت إعادة إسناد الطلب «%s» إلى %s"
	commentMsg    = "تعليق جديد من %s على الطلب «%s»: %s"
	updatedMsg    = "تحديث على الطلب «%s»"
)

var subjects = map[models.NotificationCode]string{
	models.NotifyRequestSubmitted:  "طلب جديد بانتظار الموافقة",
	models.NotifyRequestAdvanced:   "طلب بانتظار الموافقة",
	models.NotifyRequestApproved:   "تمت الموافقة على الطلب",
	models.NotifyRequestRejected:   "تم رفض الطلب",
	models.NotifyRequestCancelled:  "تم إلغاء الطلب",
	models.NotifyRequestReassigned: "إعادة إسناد طلب",
	models.NotifyCommentAdded:      "تعليق جديد",
	models.NotifyManual:            "إشعار",
}

func subjectOf(code models.NotificationCode) string {
	if subject, ok := subjects[code]; ok {
		return subject
	}
	return string(code)
}

// eventMessage текст уведомления, nameOf - имя согласующего по почте
func eventMessage(event events.Event, nameOf func(email string) string) string {
	actor := event.Actor.DisplayName()
	switch event.Code {
	case models.NotifyRequestSubmitted:
		return fmt.Sprintf(submittedMsg, event.Title, actor, nameOf(event.AssignedTo))
	case models.NotifyRequestAdvanced:
		return fmt.Sprintf(advancedMsg, actor, event.Title, nameOf(event.AssignedTo))
	case models.NotifyRequestApproved:
		return fmt.Sprintf(approvedMsg, event.Title, actor)
	case models.NotifyRequestRejected:
		return fmt.Sprintf(rejectedMsg, event.Title, actor, event.Reason)
	case models.NotifyRequestCancelled:
		return fmt.Sprintf(cancelledMsg, event.Title, actor)
	case models.NotifyRequestReassigned:
		return fmt.Sprintf(reassignedMsg, event.Title, nameOf(event.AssignedTo))
	case models.NotifyCommentAdded:
		return fmt.Sprintf(commentMsg, actor, event.Title, event.Reason)
	}
	return fmt.Sprintf(updatedMsg, event.Title)
}

// counterpartRoles отдел, которому адресован комментарий
func counterpartRoles(role models.UserRole, kind models.RequestKind) []models.UserRole {
	switch role {
	case models.TechnicalRole, models.ConveyanceRole:
		return []models.UserRole{models.PRManagerRole}
	}
	if kind == models.ClearanceKind {
		return []models.UserRole{models.ConveyanceRole}
	}
	return []models.UserRole{models.TechnicalRole}
}

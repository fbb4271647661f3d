package models

type NotificationCode string

const (
	NotifyRequestSubmitted  NotificationCode = "REQUEST_SUBMITTED"
	NotifyRequestAdvanced   NotificationCode = "REQUEST_ADVANCED"
	NotifyRequestApproved   NotificationCode = "REQUEST_APPROVED"
	NotifyRequestRejected   NotificationCode = "REQUEST_REJECTED"
	NotifyRequestCancelled  NotificationCode = "REQUEST_CANCELLED"
	NotifyRequestReassigned NotificationCode = "REQUEST_REASSIGNED"
	NotifyCommentAdded      NotificationCode = "COMMENT_ADDED"
	NotifyManual            NotificationCode = "MANUAL"
)

type NotificationChannel string

const (
	ChannelBell  NotificationChannel = "bell"
	ChannelWs    NotificationChannel = "ws"
	ChannelEmail NotificationChannel = "email"
	ChannelNats  NotificationChannel = "nats"
)

type ProjectStatus string

const (
	ProjectPlanned    ProjectStatus = "planned"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectOnHold     ProjectStatus = "on_hold"
	ProjectDone       ProjectStatus = "done"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectPlanned, ProjectInProgress, ProjectOnHold, ProjectDone:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskOpen TaskStatus = "open"
	TaskDone TaskStatus = "done"
)

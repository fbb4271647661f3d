package notificationhandler

import (
	"context"
	"estate-tracker-backend/config"
	"estate-tracker-backend/db"
	"estate-tracker-backend/lib/events"
	"estate-tracker-backend/lib/metrics"
	notificationbroker "estate-tracker-backend/lib/notification/broker"
	notificationstore "estate-tracker-backend/lib/notification/store"
	"estate-tracker-backend/models"
	notificationapimodels "estate-tracker-backend/models/api/notification"
	dbmodels "estate-tracker-backend/models/db"
	wsmodels "estate-tracker-backend/models/ws"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

type Directory interface {
	ListByRoles(roles []models.UserRole) ([]dbmodels.User, error)
	FindByEmail(email string) (*dbmodels.User, error)
}

type LivePusher interface {
	SendMessage(msg wsmodels.ServerMessage) bool
}

type Mailer interface {
	SendEMail(to, subject, message string) error
}

type Provider interface {
	HandleEvent(ctx context.Context, event events.Event)
	Notify(ctx context.Context, roles []models.UserRole, message, link string, sender models.Actor)
	List(userID string, filter notificationapimodels.NotificationFilter) (list []notificationapimodels.NotificationView, rowCount int64, err error)
	MarkRead(userID string, ids []string) error
	UnreadCount(userID string) (int64, error)
}

var Instance Provider

func NewHandler(directory Directory, live LivePusher, mailer Mailer, broker notificationbroker.Provider) {
	Instance = newImpl(notificationstore.NewInstance(db.DB), directory, live, mailer, broker, config.Conf.App.PublicURL)
}

func newImpl(store notificationstore.Provider, directory Directory, live LivePusher, mailer Mailer, broker notificationbroker.Provider, publicURL string) *impl {
	return &impl{
		store:     store,
		directory: directory,
		live:      live,
		mailer:    mailer,
		broker:    broker,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

type impl struct {
	store     notificationstore.Provider
	directory Directory
	live      LivePusher
	mailer    Mailer
	broker    notificationbroker.Provider
	publicURL string
}

type recipient struct {
	userID string
	email  string
}

type notice struct {
	code      models.NotificationCode
	requestID string
	subject   string
	message   string
	link      string
	sender    string
	withEmail bool
}

func (i impl) getLogger(code models.NotificationCode, requestID string) *log.Entry {
	return log.
		WithField("event_code", code).
		WithField("request_id", requestID)
}

func (i impl) HandleEvent(ctx context.Context, event events.Event) {
	logger := i.getLogger(event.Code, event.RequestID)
	recipients := i.eventRecipients(event, logger)
	n := notice{
		code:      event.Code,
		requestID: event.RequestID,
		subject:   subjectOf(event.Code),
		message:   eventMessage(event, i.nameOf),
		link:      i.requestLink(event.RequestID),
		sender:    event.Actor.DisplayName(),
		// по комментариям только колокольчик и ws
		withEmail: event.Code != models.NotifyCommentAdded,
	}
	i.deliver(n, recipients, logger)
	i.publishToBroker(notificationbroker.Message{
		Code:        event.Code,
		RequestID:   event.RequestID,
		RequestType: event.RequestType,
		Kind:        string(event.Kind),
		Title:       event.Title,
		Status:      string(event.Status),
		AssignedTo:  event.AssignedTo,
		ActorEmail:  event.Actor.Email,
		Recipients:  recipientEmails(recipients),
		Reason:      event.Reason,
		OccurredAt:  event.OccurredAt,
	}, logger)
}

func (i impl) Notify(ctx context.Context, roles []models.UserRole, message, link string, sender models.Actor) {
	logger := i.getLogger(models.NotifyManual, "").WithField("roles", models.RolesToStrings(roles))
	set := newRecipientSet(sender.Email)
	i.addRoles(set, roles, logger)
	recipients := set.list()
	i.deliver(notice{
		code:      models.NotifyManual,
		subject:   subjectOf(models.NotifyManual),
		message:   message,
		link:      link,
		sender:    sender.DisplayName(),
		withEmail: true,
	}, recipients, logger)
	i.publishToBroker(notificationbroker.Message{
		Code:       models.NotifyManual,
		Title:      message,
		ActorEmail: sender.Email,
		Recipients: recipientEmails(recipients),
		OccurredAt: time.Now(),
	}, logger)
}

func (i impl) List(userID string, filter notificationapimodels.NotificationFilter) (list []notificationapimodels.NotificationView, rowCount int64, err error) {
	page, limit := filter.GetPage()
	recs, rowCount, err := i.store.ListByUser(userID, filter.OnlyUnread, page, limit)
	if err != nil {
		log.WithField("user_id", userID).WithError(err).Error("ошибка получения списка уведомлений")
		return nil, 0, err
	}
	list = make([]notificationapimodels.NotificationView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, notificationapimodels.NotificationConvert(rec))
	}
	return list, rowCount, nil
}

func (i impl) MarkRead(userID string, ids []string) error {
	err := i.store.MarkRead(userID, ids)
	if err != nil {
		log.WithField("user_id", userID).WithError(err).Error("ошибка отметки уведомлений прочитанными")
	}
	return err
}

func (i impl) UnreadCount(userID string) (int64, error) {
	count, err := i.store.CountUnread(userID)
	if err != nil {
		log.WithField("user_id", userID).WithError(err).Error("ошибка получения количества непрочитанных уведомлений")
	}
	return count, err
}

func (i impl) eventRecipients(event events.Event, logger *log.Entry) []recipient {
	set := newRecipientSet(event.Actor.Email)
	if event.Code == models.NotifyCommentAdded {
		i.addRoles(set, counterpartRoles(event.Actor.Role, event.Kind), logger)
		i.addEmails(set, []string{event.AssignedTo}, logger)
		return set.list()
	}
	emails := []string{}
	switch event.Code {
	case models.NotifyRequestSubmitted, models.NotifyRequestAdvanced:
		emails = append(emails, event.AssignedTo)
	case models.NotifyRequestReassigned:
		emails = append(emails, event.AssignedTo, event.PrevAssignee)
	default:
		emails = append(emails, event.SubmittedBy)
	}
	emails = append(emails, event.CcList...)
	i.addEmails(set, emails, logger)
	i.addRoles(set, models.ParseRoles(event.NotifyRoles), logger)
	return set.list()
}

func (i impl) addRoles(set *recipientSet, roles []models.UserRole, logger *log.Entry) {
	if len(roles) == 0 || i.directory == nil {
		return
	}
	users, err := i.directory.ListByRoles(roles)
	if err != nil {
		logger.WithError(err).Error("ошибка получения пользователей по ролям")
		return
	}
	for _, user := range users {
		set.add(recipient{userID: user.ID, email: user.Email})
	}
}

// addEmails адреса вне справочника получают только письмо
func (i impl) addEmails(set *recipientSet, emails []string, logger *log.Entry) {
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email == "" || set.has(email) {
			continue
		}
		item := recipient{email: email}
		if i.directory != nil {
			user, err := i.directory.FindByEmail(email)
			if err != nil {
				logger.WithField("email", email).WithError(err).Warn("ошибка поиска пользователя по почте")
			} else if user != nil && user.IsActive {
				item.userID = user.ID
			}
		}
		set.add(item)
	}
}

func (i impl) deliver(n notice, recipients []recipient, logger *log.Entry) {
	for _, r := range recipients {
		if r.userID != "" {
			i.sendBell(n, r, logger)
		}
		if n.withEmail && r.email != "" && i.mailer != nil {
			err := i.mailer.SendEMail(r.email, n.subject, n.message+"\r\n"+n.link)
			if err != nil {
				i.fail(models.ChannelEmail, logger.WithField("to", r.email), err, "ошибка отправки уведомления на почту")
			}
		}
	}
}

func (i impl) sendBell(n notice, r recipient, logger *log.Entry) {
	rec := dbmodels.Notification{
		UserID:     r.userID,
		Code:       n.code,
		RequestID:  n.requestID,
		Message:    n.message,
		Link:       n.link,
		SenderName: n.sender,
	}
	rec.CreatedAt = time.Now()
	id, err := i.store.Create(rec)
	if err != nil {
		i.fail(models.ChannelBell, logger.WithField("user_id", r.userID), err, "ошибка сохранения уведомления")
		return
	}
	rec.ID = id
	if i.live != nil {
		// не подключенный пользователь увидит уведомление при следующем входе
		i.live.SendMessage(wsmodels.NotificationConvert(rec))
	}
}

func (i impl) publishToBroker(msg notificationbroker.Message, logger *log.Entry) {
	if i.broker == nil {
		return
	}
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = time.Now()
	}
	if err := i.broker.Publish(msg); err != nil {
		i.fail(models.ChannelNats, logger, err, "ошибка публикации события в NATS")
	}
}

func (i impl) fail(channel models.NotificationChannel, logger *log.Entry, err error, msg string) {
	metrics.NotificationFailures.WithLabelValues(string(channel)).Inc()
	logger.WithField("channel", channel).WithError(err).Error(msg)
}

func (i impl) nameOf(email string) string {
	if i.directory == nil || email == "" {
		return email
	}
	user, err := i.directory.FindByEmail(email)
	if err != nil || user == nil || user.GetFullName() == "" {
		return email
	}
	return user.GetFullName()
}

func (i impl) requestLink(requestID string) string {
	if requestID == "" {
		return ""
	}
	return i.publicURL + "/requests/" + requestID
}

type recipientSet struct {
	exclude string
	items   []recipient
	index   map[string]bool
}

func newRecipientSet(exclude string) *recipientSet {
	return &recipientSet{
		exclude: exclude,
		index:   map[string]bool{},
	}
}

func (s *recipientSet) has(email string) bool {
	return s.index[strings.ToLower(strings.TrimSpace(email))]
}

func (s *recipientSet) add(r recipient) {
	key := strings.ToLower(strings.TrimSpace(r.email))
	if key == "" || s.index[key] || models.SameIdentity(r.email, s.exclude) {
		return
	}
	s.index[key] = true
	s.items = append(s.items, r)
}

func (s *recipientSet) list() []recipient {
	return s.items
}

func recipientEmails(recipients []recipient) []string {
	result := make([]string, 0, len(recipients))
	for _, r := range recipients {
		result = append(result, r.email)
	}
	return result
}

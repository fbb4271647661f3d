package notificationhandler

import (
	"context"
	"estate-tracker-backend/lib/events"
	"estate-tracker-backend/lib/metrics"
	notificationbroker "estate-tracker-backend/lib/notification/broker"
	notificationstore "estate-tracker-backend/lib/notification/store"
	"estate-tracker-backend/models"
	notificationapimodels "estate-tracker-backend/models/api/notification"
	dbmodels "estate-tracker-backend/models/db"
	wsmodels "estate-tracker-backend/models/ws"
	"sort"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeDirectory struct {
	users []dbmodels.User
}

func (f fakeDirectory) ListByRoles(roles []models.UserRole) ([]dbmodels.User, error) {
	result := []dbmodels.User{}
	for _, user := range f.users {
		for _, role := range roles {
			if user.Role == role && user.IsActive {
				result = append(result, user)
			}
		}
	}
	return result, nil
}

func (f fakeDirectory) FindByEmail(email string) (*dbmodels.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			rec := user
			return &rec, nil
		}
	}
	return nil, nil
}

type fakeLive struct {
	msgs []wsmodels.ServerMessage
}

func (f *fakeLive) SendMessage(msg wsmodels.ServerMessage) bool {
	f.msgs = append(f.msgs, msg)
	return true
}

type fakeMailer struct {
	sent    []string
	failFor string
}

func (f *fakeMailer) SendEMail(to, subject, message string) error {
	if strings.EqualFold(to, f.failFor) {
		return errors.New("smtp: 550 mailbox unavailable")
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeBroker struct {
	msgs []notificationbroker.Message
	err  error
}

func (f *fakeBroker) Publish(msg notificationbroker.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeBroker) Close() {}

func newUser(id, email, first string, role models.UserRole) dbmodels.User {
	user := dbmodels.User{Email: email, FirstName: first, Role: role, IsActive: true}
	user.ID = id
	return user
}

type testEnv struct {
	handler *impl
	store   notificationstore.Provider
	live    *fakeLive
	mailer  *fakeMailer
	broker  *fakeBroker
}

func newTestEnv(t *testing.T) testEnv {
	DB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, DB.AutoMigrate(&dbmodels.Notification{}))

	inactive := newUser("u5", "left@x.com", "Left", models.TechnicalRole)
	inactive.IsActive = false
	directory := fakeDirectory{users: []dbmodels.User{
		newUser("u1", "nora@x.com", "Nora", models.PRManagerRole),
		newUser("u2", "tahani@x.com", "Tahani", models.TechnicalRole),
		newUser("u3", "admin@x.com", "Admin", models.AdminRole),
		newUser("u4", "cx@x.com", "Salem", models.ConveyanceRole),
		inactive,
	}}
	env := testEnv{
		store:  notificationstore.NewInstance(DB),
		live:   &fakeLive{},
		mailer: &fakeMailer{},
		broker: &fakeBroker{},
	}
	env.handler = newImpl(env.store, directory, env.live, env.mailer, env.broker, "https://estate.local/")
	return env
}

func (e testEnv) bell(t *testing.T, userID string) []notificationapimodels.NotificationView {
	list, _, err := e.handler.List(userID, notificationapimodels.NotificationFilter{})
	require.NoError(t, err)
	return list
}

func TestHandleEvent(t *testing.T) {
	ctx := context.Background()
	nora := models.Actor{ID: "u1", Email: "nora@x.com", Name: "Nora", Role: models.PRManagerRole}

	t.Run(`submitted goes to assignee, cc and notify roles but not to actor`, func(t *testing.T) {
		env := newTestEnv(t)
		env.handler.HandleEvent(ctx, events.Event{
			Code:        models.NotifyRequestSubmitted,
			RequestID:   "r1",
			Title:       "صك 123",
			Kind:        models.ClearanceKind,
			Status:      models.StatusPending,
			AssignedTo:  "Tahani@x.com",
			Actor:       nora,
			SubmittedBy: "nora@x.com",
			CcList:      []string{"outside@partner.com", "nora@x.com"},
			NotifyRoles: []string{"ADMIN"},
		})

		tahani := env.bell(t, "u2")
		require.Len(t, tahani, 1)
		require.Equal(t, "https://estate.local/requests/r1", tahani[0].Link)
		require.Contains(t, tahani[0].Message, "Tahani")
		require.Equal(t, "Nora", tahani[0].SenderName)
		require.Len(t, env.bell(t, "u3"), 1)
		require.Empty(t, env.bell(t, "u1"))

		sent := append([]string{}, env.mailer.sent...)
		sort.Strings(sent)
		require.Equal(t, []string{"Tahani@x.com", "admin@x.com", "outside@partner.com"}, sent)
		require.Len(t, env.live.msgs, 2)
		require.Len(t, env.broker.msgs, 1)
		require.Equal(t, "r1", env.broker.msgs[0].RequestID)
		require.Len(t, env.broker.msgs[0].Recipients, 3)
	})
	t.Run(`final decision goes back to submitter`, func(t *testing.T) {
		env := newTestEnv(t)
		env.handler.HandleEvent(ctx, events.Event{
			Code:        models.NotifyRequestRejected,
			RequestID:   "r2",
			Title:       "طلب",
			Status:      models.StatusRejected,
			AssignedTo:  "tahani@x.com",
			Actor:       models.Actor{ID: "u2", Email: "tahani@x.com", Name: "Tahani", Role: models.TechnicalRole},
			SubmittedBy: "nora@x.com",
			Reason:      "نقص مستندات",
		})
		nora := env.bell(t, "u1")
		require.Len(t, nora, 1)
		require.Contains(t, nora[0].Message, "نقص مستندات")
		require.Empty(t, env.bell(t, "u2"))
	})
	t.Run(`comment goes to counterpart department without email`, func(t *testing.T) {
		env := newTestEnv(t)
		env.handler.HandleEvent(ctx, events.Event{
			Code:       models.NotifyCommentAdded,
			RequestID:  "r3",
			Kind:       models.ClearanceKind,
			AssignedTo: "nora@x.com",
			Actor:      nora,
			Reason:     "تم إرفاق الصك",
		})
		require.Len(t, env.bell(t, "u4"), 1)
		require.Empty(t, env.bell(t, "u2"))
		require.Empty(t, env.bell(t, "u1"))
		require.Empty(t, env.mailer.sent)

		env.handler.HandleEvent(ctx, events.Event{
			Code:      models.NotifyCommentAdded,
			RequestID: "r3",
			Kind:      models.ClearanceKind,
			Actor:     models.Actor{ID: "u4", Email: "cx@x.com", Role: models.ConveyanceRole},
			Reason:    "ok",
		})
		require.Len(t, env.bell(t, "u1"), 1)
	})
	t.Run(`inactive user gets email only`, func(t *testing.T) {
		env := newTestEnv(t)
		env.handler.HandleEvent(ctx, events.Event{
			Code:       models.NotifyRequestAdvanced,
			RequestID:  "r4",
			AssignedTo: "left@x.com",
			Actor:      nora,
		})
		require.Empty(t, env.bell(t, "u5"))
		require.Equal(t, []string{"left@x.com"}, env.mailer.sent)
	})
	t.Run(`channel failures are counted and do not stop delivery`, func(t *testing.T) {
		env := newTestEnv(t)
		env.mailer.failFor = "tahani@x.com"
		env.broker.err = errors.New("nats: no servers available")
		emailFailures := testutil.ToFloat64(metrics.NotificationFailures.WithLabelValues(string(models.ChannelEmail)))
		natsFailures := testutil.ToFloat64(metrics.NotificationFailures.WithLabelValues(string(models.ChannelNats)))

		env.handler.HandleEvent(ctx, events.Event{
			Code:        models.NotifyRequestSubmitted,
			RequestID:   "r5",
			AssignedTo:  "tahani@x.com",
			Actor:       nora,
			NotifyRoles: []string{"ADMIN"},
		})
		require.Len(t, env.bell(t, "u2"), 1)
		require.Equal(t, []string{"admin@x.com"}, env.mailer.sent)
		require.Equal(t, emailFailures+1, testutil.ToFloat64(metrics.NotificationFailures.WithLabelValues(string(models.ChannelEmail))))
		require.Equal(t, natsFailures+1, testutil.ToFloat64(metrics.NotificationFailures.WithLabelValues(string(models.ChannelNats))))
	})
}

func TestNotify(t *testing.T) {
	env := newTestEnv(t)
	admin := models.Actor{ID: "u3", Email: "admin@x.com", Name: "Admin", Role: models.AdminRole}
	env.handler.Notify(context.Background(), []models.UserRole{models.TechnicalRole, models.AdminRole}, "اجتماع الساعة 10", "", admin)

	tahani := env.bell(t, "u2")
	require.Len(t, tahani, 1)
	require.Equal(t, string(models.NotifyManual), tahani[0].Code)
	require.Empty(t, env.bell(t, "u3"))
	require.Equal(t, []string{"tahani@x.com"}, env.mailer.sent)
	require.Len(t, env.broker.msgs, 1)
}

func TestBell(t *testing.T) {
	env := newTestEnv(t)
	nora := models.Actor{ID: "u1", Email: "nora@x.com", Name: "Nora", Role: models.PRManagerRole}
	for _, id := range []string{"r1", "r2"} {
		env.handler.HandleEvent(context.Background(), events.Event{
			Code:       models.NotifyRequestSubmitted,
			RequestID:  id,
			AssignedTo: "tahani@x.com",
			Actor:      nora,
		})
	}
	count, err := env.handler.UnreadCount("u2")
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	list := env.bell(t, "u2")
	require.NoError(t, env.handler.MarkRead("u2", []string{list[0].ID}))
	unread, rowCount, err := env.handler.List("u2", notificationapimodels.NotificationFilter{OnlyUnread: true})
	require.NoError(t, err)
	require.Equal(t, int64(1), rowCount)
	require.Equal(t, list[1].ID, unread[0].ID)

	require.NoError(t, env.handler.MarkRead("u2", nil))
	count, err = env.handler.UnreadCount("u2")
	require.NoError(t, err)
	require.Zero(t, count)
}

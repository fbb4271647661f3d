package requesthandler

import (
	"context"
	"estate-tracker-backend/lib/events"
	requestcommentstore "estate-tracker-backend/lib/request/comment-store"
	requeststore "estate-tracker-backend/lib/request/store"
	workflowerrors "estate-tracker-backend/lib/workflow-errors"
	workflowroutehandler "estate-tracker-backend/lib/workflow-route"
	"estate-tracker-backend/models"
	requestapimodels "estate-tracker-backend/models/api/request"
	dbmodels "estate-tracker-backend/models/db"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	nora   = models.Actor{ID: "1", Email: "nora@x.com", Name: "Nora", Role: models.ConveyanceRole}
	tahani = models.Actor{ID: "2", Email: "tahani@x.com", Name: "Tahani", Role: models.PRManagerRole}
	random = models.Actor{ID: "3", Email: "random@x.com", Name: "Random", Role: models.TechnicalRole}
	admin  = models.Actor{ID: "4", Email: "admin@x.com", Name: "Admin", Role: models.AdminRole}
)

type fakeRoutes struct {
	mu     sync.Mutex
	routes map[string]workflowroutehandler.ResolvedRoute
}

func (f *fakeRoutes) Resolve(ctx context.Context, requestType string) (workflowroutehandler.ResolvedRoute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	route, ok := f.routes[strings.ToUpper(requestType)]
	if !ok {
		return workflowroutehandler.ResolvedRoute{}, workflowerrors.RouteNotFound(requestType, nil)
	}
	return route, nil
}

func (f *fakeRoutes) set(requestType string, sequence ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[requestType] = workflowroutehandler.ResolvedRoute{
		RequestType: requestType,
		Sequence:    sequence,
		CcList:      []string{"cc@x.com"},
		NotifyRoles: []string{string(models.PRManagerRole)},
		Source:      workflowroutehandler.SourceStore,
	}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakePublisher) Publish(event events.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakePublisher) codes() []models.NotificationCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []models.NotificationCode{}
	for _, event := range f.events {
		result = append(result, event.Code)
	}
	return result
}

type fakeFollowUp struct {
	err      error
	approved []string
}

func (f *fakeFollowUp) RequestApproved(ctx context.Context, rec dbmodels.Request) error {
	f.approved = append(f.approved, rec.ID)
	return f.err
}

type fakeProjects map[string]bool

func (f fakeProjects) Exists(id string) (bool, error) {
	return f[id], nil
}

type fakeDirectory map[string]string

func (f fakeDirectory) ResolveDisplayName(email string) (string, error) {
	return f[email], nil
}

type testEnv struct {
	db        *gorm.DB
	handler   impl
	routes    *fakeRoutes
	publisher *fakePublisher
	followUp  *fakeFollowUp
}

func newTestEnv(t *testing.T) testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&dbmodels.Project{},
		&dbmodels.ProjectTask{},
		&dbmodels.Request{},
		&dbmodels.RequestComment{},
		&dbmodels.RequestAttachment{},
	))
	require.NoError(t, db.Create(&dbmodels.Project{BaseModel: dbmodels.BaseModel{ID: "p1"}, Name: "Tower A"}).Error)
	routes := &fakeRoutes{routes: map[string]workflowroutehandler.ResolvedRoute{}}
	routes.set("DEED_CLEARANCE", "nora@x.com", "tahani@x.com", "admin@x.com")
	routes.set("TECHNICAL_SECTION", "a@x.com", "b@x.com", "c@x.com")
	env := testEnv{
		db:        db,
		routes:    routes,
		publisher: &fakePublisher{},
		followUp:  &fakeFollowUp{},
	}
	env.handler = impl{
		store:     requeststore.NewInstance(db),
		tx:        gormTx(db),
		routes:    routes,
		directory: fakeDirectory{"tahani@x.com": "Tahani"},
		projects:  fakeProjects{"p1": true},
		publisher: env.publisher,
		followUp:  env.followUp,
		lockWait:  5 * time.Second,
	}
	return env
}

func clearanceDraft() requestapimodels.RequestDraft {
	return requestapimodels.RequestDraft{
		Kind:  models.ClearanceKind,
		Title: "إفراغ صك الوحدة 12",
		Clearance: &dbmodels.ClearanceDetails{
			DeedNumber: "4100-22",
			OwnerName:  "Owner",
		},
	}
}

func technicalDraft(projectID *string) requestapimodels.RequestDraft {
	return requestapimodels.RequestDraft{
		Kind:      models.TechnicalKind,
		Title:     "Electricity connection",
		ProjectID: projectID,
		Technical: &dbmodels.TechnicalDetails{ServiceType: "electricity"},
	}
}

func (e testEnv) state(t *testing.T, id string) *dbmodels.Request {
	rec, err := e.handler.store.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec
}

func TestDeedClearanceScenario(t *testing.T) {
	env := newTestEnv(t)
	h := env.handler
	ctx := context.Background()

	id, err := h.Submit(ctx, tahani, clearanceDraft())
	require.NoError(t, err)
	rec := env.state(t, id)
	require.Equal(t, "DEED_CLEARANCE", rec.RequestType)
	require.Equal(t, "nora@x.com", rec.AssignedTo)
	require.Equal(t, models.StatusPending, rec.Status)
	require.Equal(t, "cc@x.com", rec.CcLabel)
	require.Len(t, rec.Comments, 1)
	require.True(t, rec.Comments[0].IsSystem)

	result, err := h.Decide(ctx, id, nora, models.DecisionApprove, "")
	require.NoError(t, err)
	require.Equal(t, "tahani@x.com", result.AssignedTo)
	require.Equal(t, outcomeAdvanced, result.Outcome)
	rec = env.state(t, id)
	require.Equal(t, "tahani@x.com", rec.AssignedTo)
	require.Contains(t, rec.Comments[1].Content, "Tahani")

	_, err = h.Decide(ctx, id, random, models.DecisionApprove, "")
	require.ErrorIs(t, err, workflowerrors.ErrPermissionDenied)
	rec = env.state(t, id)
	require.Equal(t, "tahani@x.com", rec.AssignedTo)
	require.Equal(t, models.StatusPending, rec.Status)
	require.Len(t, rec.Comments, 2)

	result, err = h.Decide(ctx, id, tahani, models.DecisionReject, "missing docs")
	require.NoError(t, err)
	require.Equal(t, models.StatusRejected, result.Status)
	rec = env.state(t, id)
	require.Equal(t, models.StatusRejected, rec.Status)
	require.Equal(t, "tahani@x.com", rec.AssignedTo)
	require.Contains(t, rec.Comments[2].Content, "missing docs")
	require.Equal(t, string(models.DecisionReject), rec.Comments[2].Decision)

	_, err = h.Decide(ctx, id, tahani, models.DecisionApprove, "")
	require.ErrorIs(t, err, workflowerrors.ErrTerminalState)

	t.Run(`rejection is not repeated`, func(t *testing.T) {
		_, err := h.Decide(ctx, id, tahani, models.DecisionReject, "again")
		require.ErrorIs(t, err, workflowerrors.ErrTerminalState)
		_, err = h.Decide(ctx, id, admin, models.DecisionApprove, "")
		require.ErrorIs(t, err, workflowerrors.ErrTerminalState)
		require.Len(t, env.state(t, id).Comments, 3)
	})

	require.Equal(t, []models.NotificationCode{
		models.NotifyRequestSubmitted,
		models.NotifyRequestAdvanced,
		models.NotifyRequestRejected,
	}, env.publisher.codes())
	require.Empty(t, env.followUp.approved)
}

func TestSequentialAdvancement(t *testing.T) {
	env := newTestEnv(t)
	h := env.handler
	ctx := context.Background()
	projectID := "p1"

	id, err := h.Submit(ctx, random, technicalDraft(&projectID))
	require.NoError(t, err)
	require.Equal(t, "a@x.com", env.state(t, id).AssignedTo)

	for idx, step := range []struct {
		email    string
		assignee string
		status   models.RequestStatus
	}{
		{"a@x.com", "b@x.com", models.StatusPending},
		{"b@x.com", "c@x.com", models.StatusPending},
		{"C@X.com", "c@x.com", models.StatusApproved},
	} {
		actor := models.Actor{Email: step.email, Role: models.TechnicalRole}
		result, err := h.Decide(ctx, id, actor, models.DecisionApprove, "")
		require.NoError(t, err, idx)
		require.Equal(t, step.assignee, result.AssignedTo)
		rec := env.state(t, id)
		require.Equal(t, step.assignee, rec.AssignedTo)
		require.Equal(t, step.status, rec.Status)
	}

	view, err := h.Get(ctx, id, random)
	require.NoError(t, err)
	require.Equal(t, "3/3", view.FullChain.Progress)
	for _, step := range view.FullChain.Steps {
		require.Equal(t, models.StepApproved, step.Status)
	}
	require.False(t, view.CanAct)
	require.Equal(t, "Tower A", view.ProjectName)
	require.Equal(t, []string{id}, env.followUp.approved)
}

func TestAuthorizationBoundary(t *testing.T) {
	env := newTestEnv(t)
	h := env.handler
	ctx := context.Background()

	id, err := h.Submit(ctx, random, technicalDraft(nil))
	require.NoError(t, err)

	for _, actor := range []models.Actor{
		{Email: "b@x.com", Role: models.TechnicalRole},
		{Email: "", Name: "a@x.com", Role: models.TechnicalRole},
		{Email: "a@x.com.evil", Role: models.PRManagerRole},
	} {
		_, err = h.Decide(ctx, id, actor, models.DecisionApprove, "")
		require.ErrorIs(t, err, workflowerrors.ErrPermissionDenied)
	}
	require.Equal(t, "a@x.com", env.state(t, id).AssignedTo)

	result, err := h.Decide(ctx, id, admin, models.DecisionApprove, "")
	require.NoError(t, err)
	require.Equal(t, "b@x.com", result.AssignedTo)
	rec := env.state(t, id)
	require.Equal(t, admin.Email, rec.Comments[len(rec.Comments)-1].Author)
}

func TestSubmitErrors(t *testing.T) {
	env := newTestEnv(t)
	h := env.handler
	ctx := context.Background()

	t.Run(`custom type without route`, func(t *testing.T) {
		draft := technicalDraft(nil)
		draft.RequestType = "ROOF_INSPECTION"
		_, err := h.Submit(ctx, random, draft)
		require.ErrorIs(t, err, workflowerrors.ErrRouteNotFound)
	})

	t.Run(`unknown project`, func(t *testing.T) {
		projectID := "missing"
		_, err := h.Submit(ctx, random, technicalDraft(&projectID))
		require.ErrorIs(t, err, workflowerrors.ErrValidation)
	})

	t.Run(`invalid draft`, func(t *testing.T) {
		draft := clearanceDraft()
		draft.Clearance = nil
		_, err := h.Submit(ctx, random, draft)
		require.ErrorIs(t, err, workflowerrors.ErrValidation)
	})

	t.Run(`reject requires reason`, func(t *testing.T) {
		_, err := h.Decide(ctx, "any", nora, models.DecisionReject, " ")
		require.ErrorIs(t, err, workflowerrors.ErrValidation)
	})

	t.Run(`missing request`, func(t *testing.T) {
		_, err := h.Decide(ctx, "missing", nora, models.DecisionApprove, "")
		require.ErrorIs(t, err, workflowerrors.ErrNotFound)
	})

	require.Empty(t, env.publisher.codes())
}

func TestStaleAssignee(t *testing.T) {
	env := newTestEnv(t)
	h := env.handler
	ctx := context.Background()

	id, err := h.Submit(ctx, tahani, clearanceDraft())
	require.NoError(t, err)
	env.routes.set("DEED_CLEARANCE", "omar@x.com", "tahani@x.com")

	_, err = h.Decide(ctx, id, nora, models.DecisionApprove, "")
	require.ErrorIs(t, err, workflowerrors.ErrStaleAssignee)
	require.Equal(t, "nora@x.com", env.state(t, id).AssignedTo)

	view, err := h.Get(ctx, id, admin)
	require.NoError(t, err)
	require.True(t, view.FullChain.CurrentUnresolved)
	require.Equal(t, "غير محدد", view.Chain.CurrentStep)

	t.Run(`admin reassigns to route member`, func(t *testing.T) {
		_, err := h.Reassign(ctx, id, nora, "omar@x.com")
		require.ErrorIs(t, err, workflowerrors.ErrPermissionDenied)
		_, err = h.Reassign(ctx, id, admin, "ghost@x.com")
		require.ErrorIs(t, err, workflowerrors.ErrValidation)

		result, err := h.Reassign(ctx, id, admin, "OMAR@x.com")
		require.NoError(t, err)
		require.Equal(t, "omar@x.com", result.AssignedTo)

		_, err = h.Decide(ctx, id, models.Actor{Email: "omar@x.com", Role: models.ConveyanceRole}, models.DecisionApprove, "")
		require.NoError(t, err)
		require.Equal(t, "tahani@x.com", env.state(t, id).AssignedTo)
	})
}

func TestCancel(t *testing.T) {
	env := newTestEnv(t)
	h := env.handler
	ctx := context.Background()

	id, err := h.Submit(ctx, tahani, clearanceDraft())
	require.NoError(t, err)

	_, err = h.Cancel(ctx, id, nora, "")
	require.ErrorIs(t, err, workflowerrors.ErrPermissionDenied)

	result, err := h.Cancel(ctx, id, admin, "duplicate")
	require.NoError(t, err)
	require.Equal(t, models.StatusCancelled, result.Status)

	_, err = h.Cancel(ctx, id, admin, "")
	require.ErrorIs(t, err, workflowerrors.ErrTerminalState)
	_, err = h.Decide(ctx, id, nora, models.DecisionApprove, "")
	require.ErrorIs(t, err, workflowerrors.ErrTerminalState)

	view, err := h.Get(ctx, id, admin)
	require.NoError(t, err)
	require.Equal(t, models.StepRejected, view.FullChain.Steps[0].Status)
	require.Contains(t, env.publisher.codes(), models.NotifyRequestCancelled)
}

func TestComment(t *testing.T) {
	env := newTestEnv(t)
	h := env.handler
	ctx := context.Background()

	id, err := h.Submit(ctx, tahani, clearanceDraft())
	require.NoError(t, err)

	require.NoError(t, h.Comment(ctx, id, random, "site visit on sunday"))
	require.ErrorIs(t, h.Comment(ctx, id, random, "  "), workflowerrors.ErrValidation)
	require.ErrorIs(t, h.Comment(ctx, "missing", random, "text"), workflowerrors.ErrNotFound)

	rec := env.state(t, id)
	require.Equal(t, "nora@x.com", rec.AssignedTo)
	require.Equal(t, "site visit on sunday", rec.Comments[len(rec.Comments)-1].Content)
	codes := env.publisher.codes()
	require.Equal(t, models.NotifyCommentAdded, codes[len(codes)-1])
}

type failingCommentStore struct {
	requestcommentstore.Provider
}

func (f failingCommentStore) Create(rec dbmodels.RequestComment) (string, error) {
	return "", errors.New("disk full")
}

func TestPersistenceFailureLeavesStateUnchanged(t *testing.T) {
	env := newTestEnv(t)
	h := env.handler
	ctx := context.Background()

	id, err := h.Submit(ctx, tahani, clearanceDraft())
	require.NoError(t, err)
	published := len(env.publisher.codes())

	h.tx = func(fn func(store requeststore.Provider, commentStore requestcommentstore.Provider) error) error {
		return env.db.Transaction(func(tx *gorm.DB) error {
			return fn(requeststore.NewInstance(tx), failingCommentStore{})
		})
	}
	_, err = h.Decide(ctx, id, nora, models.DecisionApprove, "")
	require.ErrorIs(t, err, workflowerrors.ErrPersistence)

	rec := env.state(t, id)
	require.Equal(t, "nora@x.com", rec.AssignedTo)
	require.Equal(t, models.StatusPending, rec.Status)
	require.Len(t, rec.Comments, 1)
	require.Len(t, env.publisher.codes(), published)
}

func TestFollowUpFailureKeepsApproval(t *testing.T) {
	env := newTestEnv(t)
	env.routes.set("TECHNICAL_SECTION", "a@x.com")
	env.followUp.err = errors.New("project store down")
	h := env.handler
	ctx := context.Background()
	projectID := "p1"

	id, err := h.Submit(ctx, random, technicalDraft(&projectID))
	require.NoError(t, err)
	result, err := h.Decide(ctx, id, models.Actor{Email: "a@x.com", Role: models.TechnicalRole}, models.DecisionApprove, "")
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, result.Status)
	require.Equal(t, models.StatusApproved, env.state(t, id).Status)
	require.Equal(t, []string{id}, env.followUp.approved)
}

func TestCompareAndSwapRejectsStaleWrite(t *testing.T) {
	env := newTestEnv(t)
	h := env.handler
	ctx := context.Background()

	id, err := h.Submit(ctx, tahani, clearanceDraft())
	require.NoError(t, err)
	stale := env.state(t, id)

	_, err = h.Decide(ctx, id, nora, models.DecisionApprove, "")
	require.NoError(t, err)

	err = h.write(stale, map[string]interface{}{"assigned_to": "admin@x.com"}, dbmodels.RequestComment{
		RequestID: id,
		Author:    nora.Email,
		Content:   "late approval",
	})
	require.ErrorIs(t, err, workflowerrors.ErrConcurrentUpdate)
	rec := env.state(t, id)
	require.Equal(t, "tahani@x.com", rec.AssignedTo)
	require.Len(t, rec.Comments, 2)
}

func TestConcurrentDecisions(t *testing.T) {
	env := newTestEnv(t)
	h := env.handler
	ctx := context.Background()

	id, err := h.Submit(ctx, tahani, clearanceDraft())
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for idx := 0; idx < workers; idx++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Decide(ctx, id, nora, models.DecisionApprove, "")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.True(t,
			errors.Is(err, workflowerrors.ErrPermissionDenied) || errors.Is(err, workflowerrors.ErrConcurrentUpdate),
			err.Error())
	}
	require.Equal(t, 1, succeeded)

	rec := env.state(t, id)
	require.Equal(t, "tahani@x.com", rec.AssignedTo)
	require.Equal(t, models.StatusPending, rec.Status)
	decisions := 0
	for _, comment := range rec.Comments {
		if comment.Decision != "" {
			decisions++
		}
	}
	require.Equal(t, 1, decisions)
}

func TestListAndDashboard(t *testing.T) {
	env := newTestEnv(t)
	h := env.handler
	ctx := context.Background()

	first, err := h.Submit(ctx, tahani, clearanceDraft())
	require.NoError(t, err)
	_, err = h.Submit(ctx, tahani, clearanceDraft())
	require.NoError(t, err)
	_, err = h.Submit(ctx, random, technicalDraft(nil))
	require.NoError(t, err)
	_, err = h.Decide(ctx, first, nora, models.DecisionApprove, "")
	require.NoError(t, err)

	list, count, err := h.List(ctx, nora, requestapimodels.RequestFilter{AssignedToMe: true})
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
	require.True(t, list[0].CanAct)
	require.Equal(t, "0/3", list[0].Chain.Progress)
	require.Equal(t, "nora@x.com", list[0].Chain.CurrentStep)

	list, count, err = h.List(ctx, tahani, requestapimodels.RequestFilter{Kind: models.ClearanceKind})
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
	for _, row := range list {
		if row.ID == first {
			require.Equal(t, "1/3", row.Chain.Progress)
			require.Equal(t, "Tahani", row.Chain.CurrentStep)
			require.True(t, row.CanAct)
		}
	}

	dashboard, err := h.Dashboard(ctx, tahani)
	require.NoError(t, err)
	require.Equal(t, int64(1), dashboard.PendingForMe)
	require.Equal(t, int64(2), dashboard.SubmittedByMe)
	require.Equal(t, int64(3), dashboard.ByStatus[string(models.StatusPending)])
	require.Equal(t, int64(2), dashboard.ByKind[string(models.ClearanceKind)])

	dashboard, err = h.Dashboard(ctx, nora)
	require.NoError(t, err)
	require.Equal(t, int64(2), dashboard.ByStatus[string(models.StatusPending)])
}

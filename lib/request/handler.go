package requesthandler

import (
	"context"
	"estate-tracker-backend/config"
	"estate-tracker-backend/db"
	approvalchain "estate-tracker-backend/lib/approval-chain"
	"estate-tracker-backend/lib/events"
	"estate-tracker-backend/lib/metrics"
	requestcommentstore "estate-tracker-backend/lib/request/comment-store"
	requeststore "estate-tracker-backend/lib/request/store"
	"estate-tracker-backend/lib/utils/lock"
	workflowerrors "estate-tracker-backend/lib/workflow-errors"
	workflowroutehandler "estate-tracker-backend/lib/workflow-route"
	"estate-tracker-backend/models"
	requestapimodels "estate-tracker-backend/models/api/request"
	dbmodels "estate-tracker-backend/models/db"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	Submit(ctx context.Context, actor models.Actor, draft requestapimodels.RequestDraft) (id string, err error)
	Decide(ctx context.Context, requestID string, actor models.Actor, decision models.Decision, reason string) (requestapimodels.DecisionResult, error)
	Comment(ctx context.Context, requestID string, actor models.Actor, text string) error
	Cancel(ctx context.Context, requestID string, actor models.Actor, reason string) (requestapimodels.DecisionResult, error)
	Reassign(ctx context.Context, requestID string, actor models.Actor, assignee string) (requestapimodels.DecisionResult, error)
	Get(ctx context.Context, requestID string, actor models.Actor) (requestapimodels.RequestView, error)
	List(ctx context.Context, actor models.Actor, filter requestapimodels.RequestFilter) (list []requestapimodels.RequestRow, rowCount int64, err error)
	Dashboard(ctx context.Context, actor models.Actor) (requestapimodels.Dashboard, error)
}

type RouteResolver interface {
	Resolve(ctx context.Context, requestType string) (workflowroutehandler.ResolvedRoute, error)
}

type Directory interface {
	ResolveDisplayName(email string) (string, error)
}

type ProjectDirectory interface {
	Exists(id string) (bool, error)
}

// FollowUpSink создание производной работы по окончательно согласованной заявке
type FollowUpSink interface {
	RequestApproved(ctx context.Context, rec dbmodels.Request) error
}

// txRunner выполняет запись решения в одной транзакции
type txRunner func(fn func(store requeststore.Provider, commentStore requestcommentstore.Provider) error) error

func gormTx(DB *gorm.DB) txRunner {
	return func(fn func(store requeststore.Provider, commentStore requestcommentstore.Provider) error) error {
		return DB.Transaction(func(tx *gorm.DB) error {
			return fn(requeststore.NewInstance(tx), requestcommentstore.NewInstance(tx))
		})
	}
}

var Instance Provider

func NewHandler(routes RouteResolver, directory Directory, projects ProjectDirectory, publisher events.Publisher, followUp FollowUpSink) {
	Instance = impl{
		store:     requeststore.NewInstance(db.DB),
		tx:        gormTx(db.DB),
		routes:    routes,
		directory: directory,
		projects:  projects,
		publisher: publisher,
		followUp:  followUp,
		lockWait:  time.Duration(config.Conf.Workflow.DecisionLockWaitMs) * time.Millisecond,
	}
}

type impl struct {
	store     requeststore.Provider
	tx        txRunner
	routes    RouteResolver
	directory Directory
	projects  ProjectDirectory
	publisher events.Publisher
	followUp  FollowUpSink
	lockWait  time.Duration
}

var errLostUpdate = errors.New("заявка изменена параллельно")

func (i impl) getLogger(requestID string, actor models.Actor) *log.Entry {
	return log.
		WithField("request_id", requestID).
		WithField("actor", actor.Email)
}

func (i impl) Submit(ctx context.Context, actor models.Actor, draft requestapimodels.RequestDraft) (id string, err error) {
	logger := log.
		WithField("actor", actor.Email).
		WithField("kind", draft.Kind)
	if err = draft.Validate(); err != nil {
		return "", workflowerrors.Validation(err.Error())
	}
	if strings.TrimSpace(actor.Email) == "" {
		return "", workflowerrors.ErrPermissionDenied
	}
	if draft.ProjectID != nil && *draft.ProjectID != "" {
		exist, err := i.projects.Exists(*draft.ProjectID)
		if err != nil {
			logger.WithError(err).Error("ошибка проверки проекта")
			return "", workflowerrors.Persistence(err)
		}
		if !exist {
			return "", workflowerrors.Validation("указанный проект не найден")
		}
	} else {
		draft.ProjectID = nil
	}
	requestType := draft.GetRequestType()
	route, err := i.routes.Resolve(ctx, string(requestType))
	if err != nil {
		logger.WithField("request_type", requestType).WithError(err).Error("не удалось определить маршрут согласования")
		return "", err
	}
	firstAssignee := route.Sequence[0]
	rec := dbmodels.Request{
		Kind:            draft.Kind,
		RequestType:     string(requestType),
		Title:           strings.TrimSpace(draft.Title),
		Status:          models.StatusPending,
		AssignedTo:      firstAssignee,
		CcLabel:         strings.Join(route.CcList, ", "),
		SubmittedBy:     actor.Email,
		SubmittedByName: actor.DisplayName(),
		ProjectID:       draft.ProjectID,
	}
	if draft.Kind == models.TechnicalKind {
		rec.Technical = draft.Technical
	} else {
		rec.Clearance = draft.Clearance
	}
	err = i.tx(func(store requeststore.Provider, commentStore requestcommentstore.Provider) error {
		id, err = store.Create(rec)
		if err != nil {
			return err
		}
		_, err = commentStore.Create(dbmodels.RequestComment{
			RequestID:  id,
			Author:     models.SystemUser,
			AuthorName: models.SystemUser,
			Content:    fmt.Sprintf(submittedTemplate, i.displayName(firstAssignee)),
			IsSystem:   true,
		})
		return err
	})
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения заявки")
		return "", workflowerrors.Persistence(err)
	}
	rec.ID = id
	logger.
		WithField("request_id", id).
		WithField("assigned_to", firstAssignee).
		Info("Заявка подана на согласование")
	i.publish(models.NotifyRequestSubmitted, rec, route, actor, "", "")
	return id, nil
}

func (i impl) Decide(ctx context.Context, requestID string, actor models.Actor, decision models.Decision, reason string) (result requestapimodels.DecisionResult, err error) {
	if !decision.IsValid() {
		return result, workflowerrors.Validation("указано неизвестное решение")
	}
	reason = strings.TrimSpace(reason)
	if decision == models.DecisionReject && reason == "" {
		return result, workflowerrors.Validation("не указана причина отклонения")
	}
	err = i.serialize(ctx, requestID, func() error {
		result, err = i.decide(ctx, requestID, actor, decision, reason)
		return err
	})
	metrics.Decisions.WithLabelValues(string(decision), outcomeLabel(result, err)).Inc()
	return result, err
}

func (i impl) decide(ctx context.Context, requestID string, actor models.Actor, decision models.Decision, reason string) (result requestapimodels.DecisionResult, err error) {
	logger := i.getLogger(requestID, actor).WithField("decision", decision)
	rec, err := i.load(requestID)
	if err != nil {
		return result, err
	}
	if rec.Status.IsTerminal() {
		return result, workflowerrors.ErrTerminalState
	}
	if !approvalchain.CanAct(actor, rec.AssignedTo) {
		logger.WithField("assigned_to", rec.AssignedTo).Info("попытка решения не текущим согласующим")
		return result, workflowerrors.ErrPermissionDenied
	}
	route, err := i.routes.Resolve(ctx, rec.RequestType)
	if err != nil {
		logger.WithError(err).Error("не удалось определить маршрут согласования")
		return result, err
	}

	comment := dbmodels.RequestComment{
		RequestID:  rec.ID,
		Author:     actor.Email,
		AuthorName: actor.DisplayName(),
		Decision:   string(decision),
	}
	updMap := map[string]interface{}{}
	code := models.NotifyRequestRejected
	next := *rec
	result.Outcome = outcomeRejected

	if decision == models.DecisionReject {
		next.Status = models.StatusRejected
		updMap["status"] = next.Status
		comment.Content = fmt.Sprintf(rejectedTemplate, actor.DisplayName(), reason)
	} else {
		idx := approvalchain.IndexOf(route.Sequence, rec.AssignedTo)
		if idx < 0 {
			logger.
				WithField("assigned_to", rec.AssignedTo).
				WithField("sequence", route.Sequence).
				Warn("текущий согласующий отсутствует в маршруте согласования")
			return result, workflowerrors.ErrStaleAssignee
		}
		if idx == len(route.Sequence)-1 {
			next.Status = models.StatusApproved
			updMap["status"] = next.Status
			comment.Content = fmt.Sprintf(approvedTemplate, actor.DisplayName())
			code = models.NotifyRequestApproved
			result.Outcome = outcomeApproved
		} else {
			next.AssignedTo = route.Sequence[idx+1]
			next.Status = models.StatusPending
			updMap["assigned_to"] = next.AssignedTo
			updMap["status"] = next.Status
			comment.Content = fmt.Sprintf(advancedTemplate, actor.DisplayName(), i.displayName(next.AssignedTo))
			code = models.NotifyRequestAdvanced
			result.Outcome = outcomeAdvanced
		}
		if reason != "" {
			comment.Content += ". " + reason
		}
	}

	if err = i.write(rec, updMap, comment); err != nil {
		if !errors.Is(err, workflowerrors.ErrConcurrentUpdate) {
			logger.WithError(err).Error("ошибка сохранения решения по заявке")
		}
		return requestapimodels.DecisionResult{}, err
	}
	logger.
		WithField("status", next.Status).
		WithField("assigned_to", next.AssignedTo).
		Info("Решение по заявке сохранено")

	result.RequestID = rec.ID
	result.Status = next.Status
	result.AssignedTo = next.AssignedTo
	i.publish(code, next, route, actor, rec.AssignedTo, reason)
	if code == models.NotifyRequestApproved {
		i.runFollowUp(ctx, next)
	}
	return result, nil
}

func (i impl) Comment(ctx context.Context, requestID string, actor models.Actor, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return workflowerrors.Validation("комментарий не должен быть пустым")
	}
	rec, err := i.load(requestID)
	if err != nil {
		return err
	}
	err = i.tx(func(store requeststore.Provider, commentStore requestcommentstore.Provider) error {
		_, err := commentStore.Create(dbmodels.RequestComment{
			RequestID:  rec.ID,
			Author:     actor.Email,
			AuthorName: actor.DisplayName(),
			Content:    text,
		})
		return err
	})
	if err != nil {
		i.getLogger(requestID, actor).WithError(err).Error("ошибка сохранения комментария")
		return workflowerrors.Persistence(err)
	}
	route := workflowroutehandler.ResolvedRoute{CcList: splitCcLabel(rec.CcLabel)}
	i.publish(models.NotifyCommentAdded, *rec, route, actor, rec.AssignedTo, text)
	return nil
}

func (i impl) Cancel(ctx context.Context, requestID string, actor models.Actor, reason string) (result requestapimodels.DecisionResult, err error) {
	if !actor.Role.IsAdmin() {
		return result, workflowerrors.ErrPermissionDenied
	}
	reason = strings.TrimSpace(reason)
	err = i.serialize(ctx, requestID, func() error {
		rec, err := i.load(requestID)
		if err != nil {
			return err
		}
		if rec.Status.IsTerminal() {
			return workflowerrors.ErrTerminalState
		}
		content := fmt.Sprintf(cancelledTemplate, actor.DisplayName())
		if reason != "" {
			content += ". " + reason
		}
		err = i.write(rec, map[string]interface{}{"status": models.StatusCancelled}, dbmodels.RequestComment{
			RequestID:  rec.ID,
			Author:     actor.Email,
			AuthorName: actor.DisplayName(),
			Content:    content,
			Decision:   decisionCancel,
		})
		if err != nil {
			return err
		}
		next := *rec
		next.Status = models.StatusCancelled
		result = requestapimodels.DecisionResult{
			RequestID:  rec.ID,
			Status:     next.Status,
			AssignedTo: next.AssignedTo,
			Outcome:    outcomeCancelled,
		}
		i.publish(models.NotifyRequestCancelled, next, i.routeForEvent(ctx, rec), actor, rec.AssignedTo, reason)
		return nil
	})
	metrics.Decisions.WithLabelValues("cancel", outcomeLabel(result, err)).Inc()
	if err != nil && !isExpected(err) {
		i.getLogger(requestID, actor).WithError(err).Error("ошибка отмены заявки")
	}
	return result, err
}

// Reassign административное переназначение на участника действующего маршрута
func (i impl) Reassign(ctx context.Context, requestID string, actor models.Actor, assignee string) (result requestapimodels.DecisionResult, err error) {
	if !actor.Role.IsAdmin() {
		return result, workflowerrors.ErrPermissionDenied
	}
	assignee = strings.TrimSpace(assignee)
	err = i.serialize(ctx, requestID, func() error {
		rec, err := i.load(requestID)
		if err != nil {
			return err
		}
		if rec.Status.IsTerminal() {
			return workflowerrors.ErrTerminalState
		}
		route, err := i.routes.Resolve(ctx, rec.RequestType)
		if err != nil {
			return err
		}
		idx := approvalchain.IndexOf(route.Sequence, assignee)
		if idx < 0 {
			return workflowerrors.Validation("согласующий не входит в маршрут согласования заявки")
		}
		next := *rec
		next.AssignedTo = route.Sequence[idx]
		err = i.write(rec, map[string]interface{}{"assigned_to": next.AssignedTo}, dbmodels.RequestComment{
			RequestID:  rec.ID,
			Author:     actor.Email,
			AuthorName: actor.DisplayName(),
			Content:    fmt.Sprintf(reassignedTemplate, i.displayName(rec.AssignedTo), i.displayName(next.AssignedTo), actor.DisplayName()),
		})
		if err != nil {
			return err
		}
		result = requestapimodels.DecisionResult{
			RequestID:  rec.ID,
			Status:     next.Status.Normalize(),
			AssignedTo: next.AssignedTo,
			Outcome:    outcomeReassigned,
		}
		i.publish(models.NotifyRequestReassigned, next, route, actor, rec.AssignedTo, "")
		return nil
	})
	if err != nil && !isExpected(err) {
		i.getLogger(requestID, actor).WithError(err).Error("ошибка переназначения заявки")
	}
	return result, err
}

// serialize последовательное выполнение решений по одной заявке в рамках процесса
func (i impl) serialize(ctx context.Context, requestID string, fn func() error) error {
	wait := i.lockWait
	if wait <= 0 {
		wait = 3 * time.Second
	}
	locked, err := lock.WithDelay(ctx, "request:"+requestID, wait, fn)
	if !locked {
		return workflowerrors.ErrConcurrentUpdate
	}
	return err
}

// write условное обновление заявки и запись в историю одной транзакцией
func (i impl) write(rec *dbmodels.Request, updMap map[string]interface{}, comment dbmodels.RequestComment) error {
	err := i.tx(func(store requeststore.Provider, commentStore requestcommentstore.Provider) error {
		updated, err := store.CompareAndUpdate(rec.ID, rec.State(), updMap)
		if err != nil {
			return err
		}
		if !updated {
			return errLostUpdate
		}
		_, err = commentStore.Create(comment)
		return err
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, errLostUpdate) {
		return workflowerrors.ErrConcurrentUpdate
	}
	return workflowerrors.Persistence(err)
}

func (i impl) load(requestID string) (*dbmodels.Request, error) {
	rec, err := i.store.GetByID(requestID)
	if err != nil {
		log.WithField("request_id", requestID).WithError(err).Error("ошибка получения заявки")
		return nil, workflowerrors.Persistence(err)
	}
	if rec == nil {
		return nil, workflowerrors.ErrNotFound
	}
	return rec, nil
}

func (i impl) runFollowUp(ctx context.Context, rec dbmodels.Request) {
	if i.followUp == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			metrics.DerivedEffectFailures.Inc()
			log.WithField("request_id", rec.ID).Errorf("panic: (%v)", r)
		}
	}()
	if err := i.followUp.RequestApproved(ctx, rec); err != nil {
		metrics.DerivedEffectFailures.Inc()
		log.
			WithField("request_id", rec.ID).
			WithError(err).
			Error("ошибка создания задачи по согласованной заявке")
	}
}

func (i impl) publish(code models.NotificationCode, rec dbmodels.Request, route workflowroutehandler.ResolvedRoute, actor models.Actor, prevAssignee, reason string) {
	if i.publisher == nil {
		return
	}
	i.publisher.Publish(events.Event{
		Code:         code,
		RequestID:    rec.ID,
		RequestType:  rec.RequestType,
		Kind:         rec.Kind,
		Title:        rec.Title,
		Status:       rec.Status.Normalize(),
		AssignedTo:   rec.AssignedTo,
		PrevAssignee: prevAssignee,
		SubmittedBy:  rec.SubmittedBy,
		Actor:        actor,
		Reason:       reason,
		CcList:       route.CcList,
		NotifyRoles:  route.NotifyRoles,
		ProjectID:    rec.ProjectID,
	})
}

// routeForEvent маршрут для уведомлений, при ошибке уведомляются только участники из копии
func (i impl) routeForEvent(ctx context.Context, rec *dbmodels.Request) workflowroutehandler.ResolvedRoute {
	route, err := i.routes.Resolve(ctx, rec.RequestType)
	if err != nil {
		log.WithField("request_id", rec.ID).WithError(err).Warn("не удалось определить маршрут для уведомлений")
		return workflowroutehandler.ResolvedRoute{CcList: splitCcLabel(rec.CcLabel)}
	}
	return route
}

func (i impl) displayName(email string) string {
	if i.directory == nil {
		return email
	}
	name, err := i.directory.ResolveDisplayName(email)
	if err != nil {
		log.WithField("email", email).WithError(err).Warn("ошибка получения имени пользователя")
		return email
	}
	if strings.TrimSpace(name) == "" {
		return email
	}
	return name
}

func splitCcLabel(label string) []string {
	result := []string{}
	for _, item := range strings.Split(label, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func isExpected(err error) bool {
	for _, known := range []error{
		workflowerrors.ErrValidation,
		workflowerrors.ErrPermissionDenied,
		workflowerrors.ErrTerminalState,
		workflowerrors.ErrNotFound,
		workflowerrors.ErrConcurrentUpdate,
		workflowerrors.ErrStaleAssignee,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

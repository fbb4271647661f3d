package projecthandler

import (
	"context"
	projectstore "estate-tracker-backend/lib/project/store"
	projecttaskstore "estate-tracker-backend/lib/project/task-store"
	workflowerrors "estate-tracker-backend/lib/workflow-errors"
	"estate-tracker-backend/models"
	projectapimodels "estate-tracker-backend/models/api/project"
	dbmodels "estate-tracker-backend/models/db"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&dbmodels.Project{}, &dbmodels.ProjectTask{}))
	return db
}

func TestProjects(t *testing.T) {
	db := newTestDB(t)
	h := impl{
		store:     projectstore.NewInstance(db),
		taskStore: projecttaskstore.NewInstance(db),
	}

	_, err := h.Create(projectapimodels.ProjectData{Name: " "})
	require.ErrorIs(t, err, workflowerrors.ErrValidation)

	id, err := h.Create(projectapimodels.ProjectData{Name: "Tower A", Code: "TA-01"})
	require.NoError(t, err)

	exist, err := h.Exists(id)
	require.NoError(t, err)
	require.True(t, exist)
	exist, err = h.Exists("missing")
	require.NoError(t, err)
	require.False(t, exist)

	view, err := h.GetByID(id)
	require.NoError(t, err)
	require.Equal(t, models.ProjectPlanned, view.Status)

	require.NoError(t, h.Update(id, projectapimodels.ProjectData{Name: "Tower A", Status: models.ProjectInProgress}))
	list, err := h.List("tower")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, models.ProjectInProgress, list[0].Status)

	require.ErrorIs(t, h.Delete("missing"), workflowerrors.ErrNotFound)
}

func TestFollowUpSink(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	h := impl{
		store:     projectstore.NewInstance(db),
		taskStore: projecttaskstore.NewInstance(db),
	}
	sink := &FollowUpSink{taskStore: projecttaskstore.NewInstance(db)}

	projectID, err := h.Create(projectapimodels.ProjectData{Name: "Tower A"})
	require.NoError(t, err)

	request := dbmodels.Request{
		BaseModel: dbmodels.BaseModel{ID: "r1"},
		Kind:      models.TechnicalKind,
		Title:     "Electricity connection",
		ProjectID: &projectID,
		Technical: &dbmodels.TechnicalDetails{ServiceType: "electricity", Authority: "SEC"},
	}

	t.Run(`task created once per request`, func(t *testing.T) {
		require.NoError(t, sink.RequestApproved(ctx, request))
		require.NoError(t, sink.RequestApproved(ctx, request))
		view, err := h.GetByID(projectID)
		require.NoError(t, err)
		require.Len(t, view.Tasks, 1)
		require.Equal(t, "electricity / SEC", view.Tasks[0].Description)
		require.Equal(t, models.TaskOpen, view.Tasks[0].Status)

		require.NoError(t, h.SetTaskStatus(projectID, view.Tasks[0].ID, models.TaskDone))
		require.ErrorIs(t, h.SetTaskStatus(projectID, "missing", models.TaskDone), workflowerrors.ErrNotFound)
	})

	t.Run(`requests without project are skipped`, func(t *testing.T) {
		clearance := dbmodels.Request{BaseModel: dbmodels.BaseModel{ID: "r2"}, Kind: models.ClearanceKind, ProjectID: &projectID}
		require.NoError(t, sink.RequestApproved(ctx, clearance))
		noProject := dbmodels.Request{BaseModel: dbmodels.BaseModel{ID: "r3"}, Kind: models.TechnicalKind}
		require.NoError(t, sink.RequestApproved(ctx, noProject))
		tasks, err := h.taskStore.List(projectID)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
	})
}

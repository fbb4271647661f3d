package approvalchain

import (
	"estate-tracker-backend/models"
	dbmodels "estate-tracker-backend/models/db"
	"testing"

	"github.com/stretchr/testify/require"
)

var threeSteps = []string{"a@x.com", "b@x.com", "c@x.com"}

func statuses(chain Chain) []models.StepStatus {
	result := []models.StepStatus{}
	for _, step := range chain.Steps {
		result = append(result, step.Status)
	}
	return result
}

func requireSingleCurrent(t *testing.T, chain Chain) {
	current := chain.Current()
	count := 0
	for idx, step := range chain.Steps {
		if step.Status == models.StepCurrent {
			count++
		}
		if current >= 0 && idx < current {
			require.Equal(t, models.StepApproved, step.Status)
		}
		if current >= 0 && idx > current {
			require.Equal(t, models.StepPending, step.Status)
		}
	}
	require.LessOrEqual(t, count, 1)
}

func TestBuild(t *testing.T) {
	t.Run(`empty route gives empty chain`, func(t *testing.T) {
		chain := Build(nil, "a@x.com", models.StatusPending, nil, nil)
		require.True(t, chain.IsEmpty())
		require.False(t, chain.CurrentUnresolved)
	})

	t.Run(`in flight chain has single current step`, func(t *testing.T) {
		for _, assignee := range threeSteps {
			for _, status := range []models.RequestStatus{models.StatusPending, models.StatusInProgress, models.StatusUnderReview, "قيد المراجعة"} {
				chain := Build(threeSteps, assignee, status, nil, nil)
				requireSingleCurrent(t, chain)
				require.Equal(t, 1, len(filterStatus(chain, models.StepCurrent)))
			}
		}
		chain := Build(threeSteps, "b@x.com", models.StatusPending, nil, nil)
		require.Equal(t, []models.StepStatus{models.StepApproved, models.StepCurrent, models.StepPending}, statuses(chain))
		require.Equal(t, 1, chain.Current())
		require.Equal(t, 1, chain.ApprovedCount())
	})

	t.Run(`assignee compared without case`, func(t *testing.T) {
		chain := Build(threeSteps, " C@X.COM ", models.StatusPending, nil, nil)
		require.Equal(t, 2, chain.Current())
	})

	t.Run(`terminal approval marks all steps approved`, func(t *testing.T) {
		for _, status := range []models.RequestStatus{models.StatusApproved, models.StatusCompleted, "معتمد", "مكتمل"} {
			for _, assignee := range []string{"a@x.com", "c@x.com", "unknown@x.com", ""} {
				chain := Build(threeSteps, assignee, status, nil, nil)
				require.Equal(t, []models.StepStatus{models.StepApproved, models.StepApproved, models.StepApproved}, statuses(chain))
				require.False(t, chain.CurrentUnresolved)
			}
		}
	})

	t.Run(`rejection freezes chain at rejecting step`, func(t *testing.T) {
		chain := Build(threeSteps, "b@x.com", models.StatusRejected, nil, nil)
		require.Equal(t, []models.StepStatus{models.StepApproved, models.StepRejected, models.StepPending}, statuses(chain))
		require.Equal(t, -1, chain.Current())

		chain = Build(threeSteps, "a@x.com", "ملغي", nil, nil)
		require.Equal(t, []models.StepStatus{models.StepRejected, models.StepPending, models.StepPending}, statuses(chain))
	})

	t.Run(`stale assignee is reported not guessed`, func(t *testing.T) {
		chain := Build(threeSteps, "moved@x.com", models.StatusPending, nil, nil)
		require.True(t, chain.CurrentUnresolved)
		require.Equal(t, -1, chain.Current())
		require.Equal(t, []models.StepStatus{models.StepPending, models.StepPending, models.StepPending}, statuses(chain))

		chain = Build(threeSteps, "moved@x.com", models.StatusRejected, nil, nil)
		require.True(t, chain.CurrentUnresolved)
		require.Equal(t, 0, len(filterStatus(chain, models.StepRejected)))
	})

	t.Run(`malformed sequence becomes one step chain`, func(t *testing.T) {
		route := dbmodels.WorkflowRoute{AssignedToSequence: "a@b.com"}
		chain := Build(route.Sequence(), "a@b.com", models.StatusPending, nil, nil)
		require.Equal(t, 1, len(chain.Steps))
		require.Equal(t, "a@b.com", chain.Steps[0].Email)
		require.Equal(t, models.StepCurrent, chain.Steps[0].Status)
	})

	t.Run(`sequence stored as json string is one step chain`, func(t *testing.T) {
		route := dbmodels.WorkflowRoute{AssignedToSequence: `"a@b.com"`}
		require.Equal(t, []string{"a@b.com"}, route.Sequence())
		chain := Build(route.Sequence(), "a@b.com", models.StatusPending, nil, nil)
		require.Equal(t, 1, len(chain.Steps))
		require.Equal(t, models.StepCurrent, chain.Steps[0].Status)
		require.True(t, CanAct(models.Actor{Email: "A@b.com", Role: models.TechnicalRole}, route.Sequence()[0]))

		route.AssignedToSequence = `" "`
		require.Empty(t, route.Sequence())
	})

	t.Run(`names resolved with email fallback`, func(t *testing.T) {
		resolve := func(email string) string {
			if email == "a@x.com" {
				return "Nora"
			}
			return ""
		}
		chain := Build(threeSteps, "a@x.com", models.StatusPending, nil, resolve)
		require.Equal(t, "Nora", chain.Steps[0].Name)
		require.Equal(t, "b@x.com", chain.Steps[1].Name)
		require.Equal(t, 2, chain.Steps[2].Order)
	})

	t.Run(`comments enrich but do not change statuses`, func(t *testing.T) {
		comments := []dbmodels.RequestComment{
			{Author: "a@x.com", AuthorName: "Nora", Content: "ok", Decision: string(models.DecisionApprove)},
			{Author: "A@x.com", AuthorName: "Nora", Content: "again"},
			{Author: "outsider@x.com", AuthorName: "Guest", Content: "hi"},
			{Author: models.SystemUser, Content: "assigned", IsSystem: true},
			{Author: "c@x.com", Content: "early note"},
		}
		withComments := Build(threeSteps, "b@x.com", models.StatusPending, comments, nil)
		withoutComments := Build(threeSteps, "b@x.com", models.StatusPending, nil, nil)
		require.Equal(t, statuses(withoutComments), statuses(withComments))
		require.Equal(t, []string{"Nora", "c@x.com"}, withComments.Reviewers)
	})
}

func filterStatus(chain Chain, status models.StepStatus) []Step {
	result := []Step{}
	for _, step := range chain.Steps {
		if step.Status == status {
			result = append(result, step)
		}
	}
	return result
}

func TestCanAct(t *testing.T) {
	nora := models.Actor{Email: "nora@x.com", Name: "Nora", Role: models.ConveyanceRole}
	admin := models.Actor{Email: "admin@x.com", Name: "Admin", Role: models.AdminRole}

	t.Run(`assignee may act`, func(t *testing.T) {
		require.True(t, CanAct(nora, "nora@x.com"))
		require.True(t, CanAct(nora, "NORA@X.com"))
	})

	t.Run(`other user may not act`, func(t *testing.T) {
		require.False(t, CanAct(nora, "tahani@x.com"))
	})

	t.Run(`display name is not an identity`, func(t *testing.T) {
		require.False(t, CanAct(nora, "Nora"))
	})

	t.Run(`admin bypasses chain position`, func(t *testing.T) {
		require.True(t, CanAct(admin, "tahani@x.com"))
	})

	t.Run(`nothing to act on`, func(t *testing.T) {
		require.False(t, CanAct(nora, ""))
		require.False(t, CanAct(admin, "  "))
		require.False(t, CanAct(models.Actor{Role: models.TechnicalRole}, "nora@x.com"))
	})
}

package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestStatus(t *testing.T) {
	t.Run(`arabic synonyms normalized`, func(t *testing.T) {
		require.Equal(t, StatusApproved, NormalizeStatus("معتمد"))
		require.Equal(t, StatusApproved, NormalizeStatus("تمت الموافقة"))
		require.Equal(t, StatusRejected, NormalizeStatus(" مرفوض "))
		require.Equal(t, StatusCancelled, NormalizeStatus("ملغى"))
		require.Equal(t, StatusUnderReview, NormalizeStatus("قيد المراجعة"))
		require.Equal(t, StatusPending, NormalizeStatus("Pending"))
		require.Equal(t, StatusNew, NormalizeStatus(""))
	})

	t.Run(`terminal sets`, func(t *testing.T) {
		require.True(t, RequestStatus("مكتمل").IsApprovedLike())
		require.True(t, StatusCancelled.IsRejectedLike())
		require.True(t, StatusRejected.IsTerminal())
		require.False(t, StatusPendingModification.IsTerminal())
		require.False(t, RequestStatus("custom").IsTerminal())
		require.False(t, RequestStatus("custom").IsKnown())
	})

	t.Run(`same identity`, func(t *testing.T) {
		require.True(t, SameIdentity("Nora@X.com", " nora@x.com"))
		require.False(t, SameIdentity("", ""))
	})

	t.Run(`status variants include synonyms`, func(t *testing.T) {
		variants := StatusVariants([]RequestStatus{StatusPending, "معتمد"})
		require.Contains(t, variants, "pending")
		require.Contains(t, variants, "معلق")
		require.Contains(t, variants, "قيد الانتظار")
		require.Contains(t, variants, "approved")
		require.Contains(t, variants, "تمت الموافقة")
		require.NotContains(t, variants, "rejected")
		require.NotContains(t, variants, "")

		require.Contains(t, StatusVariants([]RequestStatus{StatusNew}), "")
		require.Equal(t, []string{"custom"}, StatusVariants([]RequestStatus{"Custom"}))
	})
}

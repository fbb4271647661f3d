package apimodels

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPagination(t *testing.T) {
	page, limit := Pagination{}.GetPage()
	require.Equal(t, 1, page)
	require.Equal(t, defaultLimit, limit)

	page, limit = Pagination{Page: 3, Limit: 500}.GetPage()
	require.Equal(t, 3, page)
	require.Equal(t, maxLimit, limit)

	require.NoError(t, Pagination{Page: 2, Limit: 10}.Validate())
	require.Error(t, Pagination{Page: -1}.Validate())
}

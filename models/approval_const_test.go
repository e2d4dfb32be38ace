package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApprovalConst(t *testing.T) {
	t.Run(`ParseDocCategory check`, func(t *testing.T) {
		require.Equal(t, DocCategoryTimeoff, ParseDocCategory("timeoff"))
		require.Equal(t, DocCategoryTimeoff, ParseDocCategory(" TIMEOFF "))
		require.Equal(t, DocCategoryEtc, ParseDocCategory("ETC"))
		require.Equal(t, DocCategoryEtc, ParseDocCategory(""))
		require.Equal(t, DocCategoryEtc, ParseDocCategory("VACATION"))
	})

	t.Run(`ParseTimeoffType check`, func(t *testing.T) {
		require.Equal(t, TimeoffTypeHalf, ParseTimeoffType("half"))
		require.Equal(t, TimeoffTypeSick, ParseTimeoffType("SICK"))
		require.Equal(t, TimeoffTypeAnnual, ParseTimeoffType("ANNUAL"))
		require.Equal(t, TimeoffTypeAnnual, ParseTimeoffType("unpaid"))
		require.Equal(t, TimeoffTypeAnnual, ParseTimeoffType(""))
	})

	t.Run(`ParseDocStatusFilter check`, func(t *testing.T) {
		require.Nil(t, ParseDocStatusFilter(""))
		require.Nil(t, ParseDocStatusFilter("all"))
		require.Nil(t, ParseDocStatusFilter("DONE"))
		status := ParseDocStatusFilter("approved")
		require.NotNil(t, status)
		require.Equal(t, DocStatusApproved, *status)
		require.True(t, DocStatusRejected.IsTerminal())
		require.False(t, DocStatusPending.IsTerminal())
	})
}

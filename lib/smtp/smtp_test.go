package smtp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSendEMail(t *testing.T) {
	t.Run(`not configured client skips sending`, func(t *testing.T) {
		client := impl{}
		require.False(t, client.IsConfigured())
		require.NoError(t, client.SendEMail("nora@x.com", "subject", "text"))
	})
	t.Run(`message headers`, func(t *testing.T) {
		msg := buildMessage("bot@estate.local", "nora@x.com", "طلب جديد", "body")
		require.True(t, strings.HasPrefix(msg, "From: bot@estate.local\r\nTo: nora@x.com\r\n"))
		require.Contains(t, msg, "Subject: Estate Tracker - طلب جديد\r\n")
		require.True(t, strings.HasSuffix(msg, "\r\n\r\nbody\r\n"))
	})
}

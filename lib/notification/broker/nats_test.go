package notificationbroker

import (
	"encoding/json"
	"estate-tracker-backend/models"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func TestPublish(t *testing.T) {
	t.Run(`subject is prefix plus lowercased code`, func(t *testing.T) {
		c := &fakeConn{}
		broker := newWithConn(c, "estate.workflow.")
		err := broker.Publish(Message{
			Code:       models.NotifyRequestApproved,
			RequestID:  "r1",
			Recipients: []string{"nora@x.com"},
		})
		require.NoError(t, err)
		require.Equal(t, []string{"estate.workflow.request_approved"}, c.subjects)

		msg := Message{}
		require.NoError(t, json.Unmarshal(c.payloads[0], &msg))
		require.Equal(t, "r1", msg.RequestID)
		require.Equal(t, []string{"nora@x.com"}, msg.Recipients)
	})
	t.Run(`empty prefix`, func(t *testing.T) {
		require.Equal(t, "comment_added", newWithConn(&fakeConn{}, "").Subject(models.NotifyCommentAdded))
	})
	t.Run(`connection error is returned`, func(t *testing.T) {
		c := &fakeConn{err: errors.New("nats: connection closed")}
		err := newWithConn(c, "estate").Publish(Message{Code: models.NotifyManual})
		require.Error(t, err)
		require.Contains(t, err.Error(), "estate.manual")
	})
}

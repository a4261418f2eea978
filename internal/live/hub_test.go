package live

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faculty-locator-backend/internal/model"
)

type received struct {
	Type     string `json:"type"`
	ClientID string `json:"client_id"`
	Data     struct {
		FacultyID  string `json:"facultyId"`
		Status     string `json:"status"`
		StatusText string `json:"statusText"`
	} `json:"data"`
}

func newTestHub(t *testing.T) (*Hub, string) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	r := gin.New()
	r.GET("/api/live", hub.ServeWS)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/live"
}

func dial(t *testing.T, url string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) received {
	var msg received
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHub_StreamsPresenceChanges(t *testing.T) {
	hub, url := newTestHub(t)

	first := dial(t, url)
	second := dial(t, url)

	hello := readMessage(t, first)
	assert.Equal(t, TypeHello, hello.Type)
	assert.NotEmpty(t, hello.ClientID)
	assert.Equal(t, TypeHello, readMessage(t, second).Type)

	assert.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.ObserveChange(
		model.NewPresenceRecord("1"),
		model.PresenceRecord{FacultyID: "1", Status: model.StatusAvailable, IsCheckedIn: true},
	)

	for _, conn := range []*websocket.Conn{first, second} {
		msg := readMessage(t, conn)
		assert.Equal(t, TypePresence, msg.Type)
		assert.Equal(t, "1", msg.Data.FacultyID)
		assert.Equal(t, "available", msg.Data.Status)
		assert.Equal(t, "Available for consultation", msg.Data.StatusText)
	}
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub, url := newTestHub(t)

	conn := dial(t, url)
	readMessage(t, conn)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")))
	conn.Close()

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)

	// Broadcasting with nobody connected is a no-op.
	hub.ObserveChange(model.PresenceRecord{}, model.NewPresenceRecord("2"))
}

func TestHub_Close(t *testing.T) {
	hub, url := newTestHub(t)

	conn := dial(t, url)
	readMessage(t, conn)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.ClientCount())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

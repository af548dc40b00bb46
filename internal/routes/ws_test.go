package routes

import (
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/marketplace"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/testutil"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/utils"
)

type wsTestFrame struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func listen(t *testing.T, h harness) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = h.srv.App.Listener(ln) }()
	t.Cleanup(func() { _ = h.srv.App.Shutdown() })
	return ln.Addr().String()
}

func dialWS(addr, token string) (*websocket.Conn, *http.Response, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Cookie", utils.CookieName+"="+token)
	}
	return websocket.DefaultDialer.Dial("ws://"+addr+"/ws", header)
}

func writeFrame(t *testing.T, conn *websocket.Conn, frame map[string]any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(frame))
}

func readFrame(t *testing.T, conn *websocket.Conn) wsTestFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var f wsTestFrame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

// authenticate waits for the server to confirm the registration.
func authenticate(t *testing.T, conn *websocket.Conn, u models.User) {
	t.Helper()
	writeFrame(t, conn, map[string]any{"type": "auth", "data": map[string]any{"userId": u.ID.String()}})
	require.Equal(t, "auth", readFrame(t, conn).Type)
}

type chatScene struct {
	addr    string
	owner   models.User
	tech    models.User
	listing models.Listing
	h       harness
}

func newChatScene(t *testing.T) chatScene {
	t.Helper()

	h := newHarness(t)
	s := chatScene{
		h:     h,
		owner: testutil.CreateUser(t, h.db, "alice", false),
		tech:  testutil.CreateUser(t, h.db, "bob", true),
	}
	testutil.ActivateSubscription(t, h.db, s.tech.ID)
	s.listing = testutil.CreateListing(t, h.db, s.owner.ID, "Console", "Gaming")

	market := marketplace.NewService(h.db, h.srv.Subs, nil)
	bid, err := market.CreateBid(s.tech.ID, s.listing.ID, marketplace.CreateBidInput{Amount: 500})
	require.NoError(t, err)
	_, _, err = market.AcceptBid(s.owner.ID, s.listing.ID, bid.ID)
	require.NoError(t, err)

	s.addr = listen(t, h)
	return s
}

func TestWSRejectsMissingSession(t *testing.T) {
	s := newChatScene(t)

	_, resp, err := dialWS(s.addr, "")
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWSChatRoundTrip(t *testing.T) {
	s := newChatScene(t)

	ownerConn, _, err := dialWS(s.addr, testutil.Token(t, testSecret, s.owner))
	require.NoError(t, err)
	defer ownerConn.Close()
	techConn, _, err := dialWS(s.addr, testutil.Token(t, testSecret, s.tech))
	require.NoError(t, err)
	defer techConn.Close()

	authenticate(t, ownerConn, s.owner)
	authenticate(t, techConn, s.tech)

	writeFrame(t, ownerConn, map[string]any{
		"type": "chat",
		"data": map[string]any{
			"message":     "Is Friday fine?",
			"listingId":   s.listing.ID.String(),
			"senderId":    s.owner.ID.String(),
			"recipientId": s.tech.ID.String(),
		},
	})

	for _, conn := range []*websocket.Conn{ownerConn, techConn} {
		f := readFrame(t, conn)
		require.Equal(t, "chat", f.Type)
		var msg struct {
			Message  string `json:"message"`
			SenderID string `json:"sender_id"`
		}
		require.NoError(t, json.Unmarshal(f.Data, &msg))
		require.Equal(t, "Is Friday fine?", msg.Message)
		require.Equal(t, s.owner.ID.String(), msg.SenderID)
	}

	resp, env := s.h.do(t, "GET", "/api/listings/"+s.listing.ID.String()+"/messages", testutil.Token(t, testSecret, s.tech), nil)
	require.Equal(t, 200, resp.StatusCode)
	require.Len(t, decode[[]map[string]any](t, env.Data), 1)
}

func TestWSErrorKeepsConnectionOpen(t *testing.T) {
	s := newChatScene(t)

	techConn, _, err := dialWS(s.addr, testutil.Token(t, testSecret, s.tech))
	require.NoError(t, err)
	defer techConn.Close()
	authenticate(t, techConn, s.tech)

	require.NoError(t, techConn.WriteMessage(websocket.TextMessage, []byte("not json")))
	f := readFrame(t, techConn)
	require.Equal(t, "error", f.Type)
	require.NotEmpty(t, f.Message)

	// auth needs a payload
	writeFrame(t, techConn, map[string]any{"type": "auth"})
	require.Equal(t, "error", readFrame(t, techConn).Type)

	// identity in the payload cannot override the session
	writeFrame(t, techConn, map[string]any{"type": "auth", "data": map[string]any{"userId": s.owner.ID.String()}})
	require.Equal(t, "error", readFrame(t, techConn).Type)

	writeFrame(t, techConn, map[string]any{
		"type": "chat",
		"data": map[string]any{"message": "Parts ordered", "listingId": s.listing.ID.String()},
	})
	f = readFrame(t, techConn)
	require.Equal(t, "chat", f.Type)
}

func TestWSNewSocketReplacesOld(t *testing.T) {
	s := newChatScene(t)
	tok := testutil.Token(t, testSecret, s.tech)

	first, _, err := dialWS(s.addr, tok)
	require.NoError(t, err)
	defer first.Close()
	authenticate(t, first, s.tech)

	second, _, err := dialWS(s.addr, tok)
	require.NoError(t, err)
	defer second.Close()
	authenticate(t, second, s.tech)

	ownerConn, _, err := dialWS(s.addr, testutil.Token(t, testSecret, s.owner))
	require.NoError(t, err)
	defer ownerConn.Close()
	authenticate(t, ownerConn, s.owner)

	writeFrame(t, ownerConn, map[string]any{
		"type": "chat",
		"data": map[string]any{"message": "ping", "listingId": s.listing.ID.String()},
	})
	require.Equal(t, "chat", readFrame(t, ownerConn).Type)
	require.Equal(t, "chat", readFrame(t, second).Type)

	require.NoError(t, first.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err = first.ReadMessage()
	require.Error(t, err, "replaced socket must not receive fan-out")
}

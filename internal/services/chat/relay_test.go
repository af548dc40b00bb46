package chat

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/marketplace"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/subscription"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/testutil"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []uuid.UUID
}

func (n *recordingNotifier) Notify(_ context.Context, userID uuid.UUID, _ interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, userID)
	return nil
}

type env struct {
	db       *gorm.DB
	hub      *realtime.Hub
	relay    *Relay
	notifier *recordingNotifier
	owner    models.User
	tech     models.User
	listing  models.Listing
}

// setup returns a listing with an accepted bid so chat is open.
func setup(t *testing.T) env {
	t.Helper()

	gdb := testutil.NewDB(t)
	market := marketplace.NewService(gdb, subscription.NewService(gdb, 300, 30, nil), nil)
	hub := realtime.NewHub()
	n := &recordingNotifier{}

	e := env{
		db:       gdb,
		hub:      hub,
		relay:    NewRelay(gdb, hub, market, n),
		notifier: n,
		owner:    testutil.CreateUser(t, gdb, "alice", false),
		tech:     testutil.CreateUser(t, gdb, "bob", true),
	}
	testutil.ActivateSubscription(t, gdb, e.tech.ID)
	e.listing = testutil.CreateListing(t, gdb, e.owner.ID, "Laptop", "Computers")

	bid, err := market.CreateBid(e.tech.ID, e.listing.ID, marketplace.CreateBidInput{Amount: 500})
	require.NoError(t, err)
	_, _, err = market.AcceptBid(e.owner.ID, e.listing.ID, bid.ID)
	require.NoError(t, err)
	return e
}

func connect(e env, u models.User) *realtime.Client {
	c := realtime.NewClient(u.ID, nil)
	e.hub.Register(c)
	return c
}

func chatFrame(t *testing.T, d ChatData) []byte {
	t.Helper()
	data, err := json.Marshal(d)
	require.NoError(t, err)
	raw, err := json.Marshal(Frame{Type: FrameChat, Data: data})
	require.NoError(t, err)
	return raw
}

func next(t *testing.T, c *realtime.Client) map[string]any {
	t.Helper()
	select {
	case b := <-c.Send:
		var m map[string]any
		require.NoError(t, json.Unmarshal(b, &m))
		return m
	default:
		t.Fatal("expected a frame")
		return nil
	}
}

func TestChatFansOutToBothSides(t *testing.T) {
	e := setup(t)
	ownerSock := connect(e, e.owner)
	techSock := connect(e, e.tech)

	e.relay.Handle(context.Background(), ownerSock, chatFrame(t, ChatData{
		Message:     "When can you come?",
		ListingID:   e.listing.ID.String(),
		SenderID:    e.owner.ID.String(),
		RecipientID: e.tech.ID.String(),
	}))

	for _, c := range []*realtime.Client{ownerSock, techSock} {
		f := next(t, c)
		require.Equal(t, "chat", f["type"])
		data := f["data"].(map[string]any)
		require.Equal(t, "When can you come?", data["message"])
		require.Equal(t, e.owner.ID.String(), data["sender_id"])
	}
	require.Equal(t, []uuid.UUID{e.tech.ID}, e.notifier.calls)
}

func TestChatToAbsentRecipientIsPersisted(t *testing.T) {
	e := setup(t)
	techSock := connect(e, e.tech)

	e.relay.Handle(context.Background(), techSock, chatFrame(t, ChatData{
		Message:   "On my way",
		ListingID: e.listing.ID.String(),
	}))
	require.Equal(t, "chat", next(t, techSock)["type"])

	msgs, err := e.relay.History(e.owner.ID, e.listing.ID, false)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "On my way", msgs[0].Message)
	require.Equal(t, e.tech.ID, msgs[0].SenderID)
}

func TestErrorsGoOnlyToSender(t *testing.T) {
	e := setup(t)
	ownerSock := connect(e, e.owner)
	techSock := connect(e, e.tech)

	cases := map[string][]byte{
		"not json":        []byte("{nope"),
		"missing data":    []byte(`{"type":"chat"}`),
		"unknown type":    []byte(`{"type":"shout","data":{}}`),
		"empty message":   chatFrame(t, ChatData{ListingID: e.listing.ID.String()}),
		"bad listing id":  chatFrame(t, ChatData{Message: "hi", ListingID: "42"}),
		"unknown listing": chatFrame(t, ChatData{Message: "hi", ListingID: uuid.NewString()}),
		"spoofed sender":  chatFrame(t, ChatData{Message: "hi", ListingID: e.listing.ID.String(), SenderID: e.tech.ID.String()}),
		"wrong recipient": chatFrame(t, ChatData{Message: "hi", ListingID: e.listing.ID.String(), RecipientID: uuid.NewString()}),
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			e.relay.Handle(context.Background(), ownerSock, raw)
			f := next(t, ownerSock)
			require.Equal(t, "error", f["type"])
			require.NotEmpty(t, f["message"])
			require.Empty(t, techSock.Send)
		})
	}

	msgs, err := e.relay.History(e.owner.ID, e.listing.ID, false)
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestChatClosedUntilAccepted(t *testing.T) {
	e := setup(t)
	open := testutil.CreateListing(t, e.db, e.owner.ID, "Toaster", "Appliances")
	ownerSock := connect(e, e.owner)

	e.relay.Handle(context.Background(), ownerSock, chatFrame(t, ChatData{Message: "hi", ListingID: open.ID.String()}))
	require.Equal(t, "error", next(t, ownerSock)["type"])
}

func TestOutsiderCannotChatOrReadHistory(t *testing.T) {
	e := setup(t)
	eve := testutil.CreateUser(t, e.db, "eve", false)
	sock := connect(e, eve)

	e.relay.Handle(context.Background(), sock, chatFrame(t, ChatData{Message: "hi", ListingID: e.listing.ID.String()}))
	require.Equal(t, "error", next(t, sock)["type"])

	_, err := e.relay.History(eve.ID, e.listing.ID, false)
	require.Error(t, err)

	_, err = e.relay.History(eve.ID, e.listing.ID, true)
	require.NoError(t, err)
}

func TestAuthFrame(t *testing.T) {
	e := setup(t)
	sock := realtime.NewClient(e.owner.ID, nil)

	for _, raw := range []string{`{"type":"auth"}`, `{"type":"auth","data":null}`} {
		e.relay.Handle(context.Background(), sock, []byte(raw))
		f := next(t, sock)
		require.Equal(t, "error", f["type"])
		require.Equal(t, "Invalid message format", f["message"])
	}

	e.relay.Handle(context.Background(), sock, []byte(`{"type":"auth","data":{"userId":"`+e.tech.ID.String()+`"}}`))
	require.Equal(t, "error", next(t, sock)["type"])
	_, ok := e.hub.Lookup(e.owner.ID)
	require.False(t, ok)

	e.relay.Handle(context.Background(), sock, []byte(`{"type":"auth","data":{"userId":"`+e.owner.ID.String()+`"}}`))
	require.Equal(t, "auth", next(t, sock)["type"])
	got, ok := e.hub.Lookup(e.owner.ID)
	require.True(t, ok)
	require.Same(t, sock, got)
}

func TestPing(t *testing.T) {
	e := setup(t)
	sock := connect(e, e.owner)
	e.relay.Handle(context.Background(), sock, []byte(`{"type":"ping"}`))
	require.Equal(t, "pong", next(t, sock)["type"])
}

func TestHistoryOrdered(t *testing.T) {
	e := setup(t)
	for _, text := range []string{"one", "two", "three"} {
		_, err := e.relay.Send(context.Background(), e.owner.ID, ChatData{Message: text, ListingID: e.listing.ID.String()})
		require.NoError(t, err)
	}

	msgs, err := e.relay.History(e.tech.ID, e.listing.ID, false)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	require.Equal(t, "one", msgs[0].Message)
	require.Equal(t, "three", msgs[2].Message)
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"courtyard/internal/model"
	"courtyard/internal/pkg/profanity"
	"courtyard/internal/pkg/ws"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEndpoint struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (e *recordingEndpoint) WriteMessage(_ int, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frames = append(e.frames, data)
	return nil
}

func (e *recordingEndpoint) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func (e *recordingEndpoint) frameCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.frames)
}

const (
	sellerID = uint64(1)
	buyerID  = uint64(2)
)

func newChatFixture(t *testing.T) (*ChatService, *fakeChatRepo, *fakeMessageRepo, uint64) {
	t.Helper()
	adRepo := newFakeAdRepo()
	ad := &model.Ad{Title: "Bookshelf", PostedBy: sellerID, ApartmentID: 1, Active: true}
	require.NoError(t, adRepo.Create(context.Background(), ad))

	chatRepo := newFakeChatRepo()
	msgRepo := newFakeMessageRepo()
	filter := profanity.NewFilterWithDictionary([]string{"crook"})
	svc := NewChatService(chatRepo, adRepo, msgRepo, filter, ws.NewRegistry())
	return svc, chatRepo, msgRepo, ad.ID
}

func TestStartChatFindsOrCreates(t *testing.T) {
	svc, _, _, adID := newChatFixture(t)
	ctx := context.Background()

	token, err := svc.StartChat(ctx, adID, buyerID)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	again, err := svc.StartChat(ctx, adID, buyerID)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	_, err = svc.StartChat(ctx, adID, sellerID)
	assert.ErrorIs(t, err, ErrParamInvalid)

	_, err = svc.StartChat(ctx, 999, buyerID)
	assert.ErrorIs(t, err, ErrAdNotFound)
}

func TestLookupChatNeverCreates(t *testing.T) {
	svc, _, _, adID := newChatFixture(t)
	ctx := context.Background()

	_, err := svc.LookupChat(ctx, adID, buyerID)
	assert.ErrorIs(t, err, ErrChatNotFound)

	token, err := svc.StartChat(ctx, adID, buyerID)
	require.NoError(t, err)

	found, err := svc.LookupChat(ctx, adID, buyerID)
	require.NoError(t, err)
	assert.Equal(t, token, found)

	_, err = svc.LookupChat(ctx, 999, buyerID)
	assert.ErrorIs(t, err, ErrAdNotFound)
}

func TestSendMessageCensorsAndSequences(t *testing.T) {
	svc, chatRepo, _, adID := newChatFixture(t)
	ctx := context.Background()

	token, err := svc.StartChat(ctx, adID, buyerID)
	require.NoError(t, err)

	msg, err := svc.SendMessage(ctx, token, buyerID, "you are a crook")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), msg.Seq)
	assert.NotContains(t, msg.Data, "crook")

	msg2, err := svc.SendMessage(ctx, token, sellerID, "no offence taken")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), msg2.Seq)
	assert.Equal(t, "no offence taken", msg2.Data)

	head, err := chatRepo.GetHistoryHead(ctx, token)
	require.NoError(t, err)
	assert.True(t, head.NewNotifications)
	assert.Equal(t, sellerID, head.LastSenderID)

	_, err = svc.SendMessage(ctx, token, uint64(42), "not my chat")
	assert.ErrorIs(t, err, UnauthorizedError)
}

func TestSendMessageRollsBackOnStoreFailure(t *testing.T) {
	svc, chatRepo, msgRepo, adID := newChatFixture(t)
	ctx := context.Background()

	token, err := svc.StartChat(ctx, adID, buyerID)
	require.NoError(t, err)

	msgRepo.err = errors.New("insert refused")
	_, err = svc.SendMessage(ctx, token, buyerID, "hello")
	assert.ErrorIs(t, err, ErrPersistence)

	// The sequence and flags never advanced: no partial state.
	head, err := chatRepo.GetHistoryHead(ctx, token)
	require.NoError(t, err)
	assert.Zero(t, head.MaxMsgSeq)
	assert.False(t, head.NewNotifications)
}

func TestHistoryAcknowledges(t *testing.T) {
	svc, chatRepo, _, adID := newChatFixture(t)
	ctx := context.Background()

	token, err := svc.StartChat(ctx, adID, buyerID)
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, token, buyerID, "first")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, token, buyerID, "second")
	require.NoError(t, err)

	history, err := svc.GetHistory(ctx, token, sellerID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, uint64(1), history[0].Seq)
	assert.Equal(t, uint64(2), history[1].Seq)

	head, err := chatRepo.GetHistoryHead(ctx, token)
	require.NoError(t, err)
	assert.False(t, head.NewNotifications)

	// Acknowledging an already-read chat is a no-op, not an error.
	require.NoError(t, svc.Acknowledge(ctx, token, sellerID))
	require.NoError(t, svc.Acknowledge(ctx, token, sellerID))
}

func TestSendMessageBroadcastsToLiveEndpoints(t *testing.T) {
	svc, _, _, adID := newChatFixture(t)
	ctx := context.Background()

	token, err := svc.StartChat(ctx, adID, buyerID)
	require.NoError(t, err)

	sellerEp := &recordingEndpoint{}
	buyerEp := &recordingEndpoint{}
	svc.AttachEndpoint(token, sellerID, sellerEp)
	svc.AttachEndpoint(token, buyerID, buyerEp)
	defer svc.DetachEndpoint(token, sellerEp)
	defer svc.DetachEndpoint(token, buyerEp)

	_, err = svc.SendMessage(ctx, token, buyerID, "is it still available?")
	require.NoError(t, err)

	// Echo-to-sender is the default, so both sides hear the message.
	assert.Equal(t, 1, sellerEp.frameCount())
	assert.Equal(t, 1, buyerEp.frameCount())

	// The peer's frame carries the plain message body and the server-side
	// sender identity.
	var frame struct {
		Data   string `json:"data"`
		Sender uint64 `json:"sender"`
	}
	require.NoError(t, json.Unmarshal(sellerEp.frames[0], &frame))
	assert.Equal(t, "is it still available?", frame.Data)
	assert.Equal(t, buyerID, frame.Sender)
}

func TestBlockedChatRefusesMessages(t *testing.T) {
	svc, _, _, adID := newChatFixture(t)
	ctx := context.Background()

	token, err := svc.StartChat(ctx, adID, buyerID)
	require.NoError(t, err)
	require.NoError(t, svc.SetBlocked(ctx, token, sellerID, true))

	_, err = svc.SendMessage(ctx, token, buyerID, "hello?")
	assert.ErrorIs(t, err, ErrChatBlocked)

	require.NoError(t, svc.SetBlocked(ctx, token, sellerID, false))
	_, err = svc.SendMessage(ctx, token, buyerID, "hello again")
	require.NoError(t, err)
}

func TestHideChatUntilNextMessage(t *testing.T) {
	svc, _, _, adID := newChatFixture(t)
	ctx := context.Background()

	token, err := svc.StartChat(ctx, adID, buyerID)
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, token, buyerID, "ping")
	require.NoError(t, err)

	require.NoError(t, svc.HideChat(ctx, token, sellerID))
	chats, err := svc.ListChats(ctx, sellerID)
	require.NoError(t, err)
	assert.Empty(t, chats)

	// A new message from the other side un-hides the conversation.
	_, err = svc.SendMessage(ctx, token, buyerID, "ping again")
	require.NoError(t, err)
	chats, err = svc.ListChats(ctx, sellerID)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	require.NotNil(t, chats[0].LastMessage)
	assert.Equal(t, "ping again", chats[0].LastMessage.Data)
}

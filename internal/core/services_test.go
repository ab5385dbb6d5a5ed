package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SaiPran04/Spero-AI-Mental-Health-Assistant/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "chat_logs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// failingStore fails every conversation operation.
type failingStore struct{}

func (failingStore) AppendMessage(context.Context, int64, string, string, string) (*store.ChatLog, error) {
	return nil, errors.New("disk full")
}

func (failingStore) AppendConversation(context.Context, int64, string, []store.MessagePair) (string, error) {
	return "", errors.New("disk full")
}

func (failingStore) ListConversations(context.Context, int64) ([]store.ConversationSummary, error) {
	return nil, errors.New("disk full")
}

func (failingStore) GetConversation(context.Context, int64, string) ([]store.MessagePair, error) {
	return nil, errors.New("disk full")
}

func TestUserService_SignupAndLogin(t *testing.T) {
	svc := NewUserService(newTestStore(t), zap.NewNop())
	ctx := context.Background()

	u, err := svc.Signup(ctx, " Ada ", "Ada@Example.com ", "pa55word")
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEqual(t, "pa55word", u.PasswordHash)

	got, err := svc.Login(ctx, "ada@example.com", "pa55word")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestUserService_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	svc := NewUserService(s, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ada", "ada@example.com", "pa55word")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "Imposter", "ada@example.com", "other")
	require.ErrorIs(t, err, ErrDuplicateEmail)

	// The original account is untouched.
	_, err = svc.Login(ctx, "ada@example.com", "pa55word")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "ada@example.com", "other")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_InvalidCredentials(t *testing.T) {
	svc := NewUserService(newTestStore(t), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ada", "ada@example.com", "pa55word")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "pa55word")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_Validation(t *testing.T) {
	svc := NewUserService(newTestStore(t), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Signup(ctx, "", "a@b.c", "pw")
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = svc.Signup(ctx, "A", "  ", "pw")
	assert.ErrorIs(t, err, ErrMissingFields)
	_, err = svc.Signup(ctx, "A", "a@b.c", "")
	assert.ErrorIs(t, err, ErrMissingFields)

	long := make([]byte, 80)
	for i := range long {
		long[i] = 'x'
	}
	_, err = svc.Signup(ctx, "A", "a@b.c", string(long))
	assert.ErrorIs(t, err, ErrPasswordLong)
}

func TestChatService_ChatStoresExchange(t *testing.T) {
	s := newTestStore(t)
	model := &fakeModel{reply: "Hi there!"}
	svc := NewChatService(s, model, zap.NewNop())
	ctx := context.Background()

	reply, err := svc.Chat(ctx, 1, "Hello", "")
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", reply.Response)
	require.NotEmpty(t, reply.ConversationID)
	assert.Equal(t, []string{"Hello"}, model.calls)

	history, err := svc.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, reply.ConversationID, history[0].ID)

	msgs, err := svc.Conversation(ctx, 1, reply.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, []store.MessagePair{{User: "Hello", AI: "Hi there!"}}, msgs)
}

func TestChatService_ChatContinuesConversation(t *testing.T) {
	s := newTestStore(t)
	svc := NewChatService(s, &fakeModel{reply: "ok"}, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Chat(ctx, 1, "one", "session-1")
	require.NoError(t, err)
	second, err := svc.Chat(ctx, 1, "two", first.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, "session-1", second.ConversationID)

	msgs, err := svc.Conversation(ctx, 1, "session-1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].User)
	assert.Equal(t, "two", msgs[1].User)
}

func TestChatService_ModelUnavailableStoresNothing(t *testing.T) {
	s := newTestStore(t)
	svc := NewChatService(s, &fakeModel{err: errors.New("boom")}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Chat(ctx, 1, "Hello", "k")
	require.ErrorIs(t, err, ErrModelUnavailable)

	history, err := svc.History(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestChatService_EmptyMessage(t *testing.T) {
	model := &fakeModel{reply: "x"}
	svc := NewChatService(newTestStore(t), model, zap.NewNop())

	_, err := svc.Chat(context.Background(), 1, "   ", "")
	require.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, model.calls)
}

func TestChatService_SaveChat(t *testing.T) {
	s := newTestStore(t)
	svc := NewChatService(s, &fakeModel{}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.SaveChat(ctx, 1, "", nil)
	require.ErrorIs(t, err, ErrNoMessagesToSave)

	pairs := []store.MessagePair{{User: "a", AI: "b"}, {User: "c", AI: "d"}}
	key, err := svc.SaveChat(ctx, 1, "", pairs)
	require.NoError(t, err)

	msgs, err := svc.Conversation(ctx, 1, key)
	require.NoError(t, err)
	assert.Equal(t, pairs, msgs)
}

func TestChatService_AppendThenListShowsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	svc := NewChatService(s, &fakeModel{reply: "r"}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.SaveChat(ctx, 1, "older", []store.MessagePair{{User: "old", AI: "r"}})
	require.NoError(t, err)
	reply, err := svc.Chat(ctx, 1, "new", "newer")
	require.NoError(t, err)

	history, err := svc.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, reply.ConversationID, history[0].ID)
}

func TestChatService_StoreErrors(t *testing.T) {
	svc := NewChatService(failingStore{}, &fakeModel{reply: "r"}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Chat(ctx, 1, "hi", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrModelUnavailable)

	_, err = svc.SaveChat(ctx, 1, "", []store.MessagePair{{User: "a"}})
	require.Error(t, err)

	_, err = svc.History(ctx, 1)
	require.Error(t, err)

	_, err = svc.Conversation(ctx, 1, "k")
	require.Error(t, err)
}

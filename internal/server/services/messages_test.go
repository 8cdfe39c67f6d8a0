package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedParties(t *testing.T, env *testEnv) {
	t.Helper()
	env.register(t, "alice", "pw")
	env.register(t, "bob", "pw")
	env.register(t, "carol", "pw")
}

func TestMessageService_Send(t *testing.T) {
	env := newTestEnv(t)
	seedParties(t, env)
	ctx := context.Background()

	m, err := env.messages.Send(ctx, me("alice"), models.SendMessageInput{ToUsername: "bob", Body: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "alice", m.FromUsername)
	assert.Equal(t, "bob", m.ToUsername)
	assert.Equal(t, "hi", m.Body)
	assert.Positive(t, m.ID)
	assert.False(t, m.SentAt.IsZero())

	_, err = env.messages.Send(ctx, me("alice"), models.SendMessageInput{ToUsername: "ghost", Body: "hi"})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = env.messages.Send(ctx, models.Identity{}, models.SendMessageInput{ToUsername: "bob", Body: "hi"})
	assert.ErrorIs(t, err, common.ErrorUnauthenticated)

	_, err = env.messages.Send(ctx, me("alice"), models.SendMessageInput{ToUsername: "bob"})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestMessageService_Get_PartiesOnly(t *testing.T) {
	env := newTestEnv(t)
	seedParties(t, env)
	ctx := context.Background()

	sent, err := env.messages.Send(ctx, me("alice"), models.SendMessageInput{ToUsername: "bob", Body: "hi"})
	require.NoError(t, err)

	for _, who := range []string{"alice", "bob"} {
		got, err := env.messages.Get(ctx, me(who), sent.ID)
		require.NoError(t, err, who)
		assert.Equal(t, "alice", got.FromUser.Username)
		assert.Equal(t, "Falice", got.FromUser.FirstName)
		assert.Equal(t, "bob", got.ToUser.Username)
		assert.Nil(t, got.ReadAt)
	}

	_, err = env.messages.Get(ctx, me("carol"), sent.ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)

	_, err = env.messages.Get(ctx, models.Identity{}, sent.ID)
	assert.ErrorIs(t, err, common.ErrorUnauthenticated)
}

func TestMessageService_Get_MissingLooksForbidden(t *testing.T) {
	env := newTestEnv(t)
	seedParties(t, env)

	_, err := env.messages.Get(context.Background(), me("alice"), 999)
	assert.ErrorIs(t, err, common.ErrorForbidden)
	assert.NotErrorIs(t, err, common.ErrorNotFound)

	_, err = env.messages.Get(context.Background(), me("alice"), 0)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestMessageService_MarkRead(t *testing.T) {
	env := newTestEnv(t)
	seedParties(t, env)
	ctx := context.Background()

	sent, err := env.messages.Send(ctx, me("alice"), models.SendMessageInput{ToUsername: "bob", Body: "hi"})
	require.NoError(t, err)

	_, err = env.messages.MarkRead(ctx, me("alice"), sent.ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)
	_, err = env.messages.MarkRead(ctx, me("carol"), sent.ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)

	got, err := env.messages.Get(ctx, me("alice"), sent.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ReadAt, "rejected attempts must not mark the message")

	first, err := env.messages.MarkRead(ctx, me("bob"), sent.ID)
	require.NoError(t, err)
	assert.Equal(t, sent.ID, first.ID)
	assert.False(t, first.ReadAt.Before(sent.SentAt))

	again, err := env.messages.MarkRead(ctx, me("bob"), sent.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ReadAt, again.ReadAt)

	_, err = env.messages.MarkRead(ctx, me("bob"), 999)
	assert.ErrorIs(t, err, common.ErrorForbidden)
}

func TestMessageService_MarkRead_SelfMessage(t *testing.T) {
	env := newTestEnv(t)
	seedParties(t, env)
	ctx := context.Background()

	sent, err := env.messages.Send(ctx, me("alice"), models.SendMessageInput{ToUsername: "alice", Body: "note"})
	require.NoError(t, err)

	r, err := env.messages.MarkRead(ctx, me("alice"), sent.ID)
	require.NoError(t, err)
	assert.Equal(t, sent.ID, r.ID)
}

func TestMessageService_Lists(t *testing.T) {
	env := newTestEnv(t)
	seedParties(t, env)
	ctx := context.Background()

	_, err := env.messages.Send(ctx, me("alice"), models.SendMessageInput{ToUsername: "bob", Body: "one"})
	require.NoError(t, err)
	_, err = env.messages.Send(ctx, me("carol"), models.SendMessageInput{ToUsername: "bob", Body: "two"})
	require.NoError(t, err)
	_, err = env.messages.Send(ctx, me("alice"), models.SendMessageInput{ToUsername: "carol", Body: "three"})
	require.NoError(t, err)

	from, err := env.messages.ListFrom(ctx, me("alice"), "alice")
	require.NoError(t, err)
	require.Len(t, from, 2)
	assert.Equal(t, "one", from[0].Body)
	assert.Equal(t, "bob", from[0].ToUser.Username)
	assert.Equal(t, "three", from[1].Body)

	to, err := env.messages.ListTo(ctx, me("bob"), "bob")
	require.NoError(t, err)
	require.Len(t, to, 2)
	assert.Equal(t, "alice", to[0].FromUser.Username)
	assert.Equal(t, "carol", to[1].FromUser.Username)

	_, err = env.messages.ListTo(ctx, me("alice"), "bob")
	assert.ErrorIs(t, err, common.ErrorForbidden)
	_, err = env.messages.ListFrom(ctx, me("bob"), "alice")
	assert.ErrorIs(t, err, common.ErrorForbidden)
	_, err = env.messages.ListFrom(ctx, models.Identity{}, "alice")
	assert.ErrorIs(t, err, common.ErrorUnauthenticated)

	empty, err := env.messages.ListFrom(ctx, me("bob"), "bob")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMessageService_StoreErrorsPropagate(t *testing.T) {
	env := newTestEnv(t)
	seedParties(t, env)
	boom := errors.New("boom")
	env.store.failWith = boom
	ctx := context.Background()

	_, err := env.messages.Send(ctx, me("alice"), models.SendMessageInput{ToUsername: "bob", Body: "hi"})
	assert.ErrorIs(t, err, boom)
	_, err = env.messages.Get(ctx, me("alice"), 1)
	assert.ErrorIs(t, err, boom)
	_, err = env.messages.MarkRead(ctx, me("bob"), 1)
	assert.ErrorIs(t, err, boom)
	_, err = env.messages.ListTo(ctx, me("bob"), "bob")
	assert.ErrorIs(t, err, boom)
}

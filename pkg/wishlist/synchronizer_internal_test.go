package wishlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashrajoria/marketplace/pkg/catalog"
	"github.com/yashrajoria/marketplace/pkg/identity"
)

type emptyRemote struct{}

func (emptyRemote) List(context.Context, identity.Identity) ([]catalog.Product, error) {
	return []catalog.Product{}, nil
}

func (emptyRemote) Add(_ context.Context, _ identity.Identity, productID string) ([]catalog.Product, error) {
	return []catalog.Product{{ID: productID}}, nil
}

func (emptyRemote) Remove(context.Context, identity.Identity, string) ([]catalog.Product, error) {
	return []catalog.Product{}, nil
}

func TestSynchronizer_DropsLockOfPreviousOwner(t *testing.T) {
	sessions := &identity.MemorySessions{}
	sessions.SetUser(identity.Session{ID: "u1", Token: "t1"})
	s := New(emptyRemote{}, identity.NewResolver(sessions), Options{})

	require.NoError(t, s.Add(context.Background(), "p1"))
	assert.Contains(t, s.locks, "user:u1")

	sessions.SetUser(identity.Session{ID: "u2", Token: "t2"})
	require.NoError(t, s.Add(context.Background(), "p2"))

	assert.NotContains(t, s.locks, "user:u1")
	assert.Contains(t, s.locks, "user:u2")
	assert.Len(t, s.locks, 1)
}

func TestSynchronizer_OlderResponseIsNotApplied(t *testing.T) {
	sessions := &identity.MemorySessions{}
	sessions.SetUser(identity.Session{ID: "u1", Token: "t1"})
	s := New(emptyRemote{}, identity.NewResolver(sessions), Options{})
	u1 := identity.User("u1", "t1")

	s.begin(u1)
	s.begin(u1)
	require.NoError(t, s.finish(u1, "add", 2, []catalog.Product{{ID: "new"}}, nil, ""))
	require.NoError(t, s.finish(u1, "fetch", 1, []catalog.Product{{ID: "old"}}, nil, ""))

	assert.True(t, s.Contains("new"))
	assert.False(t, s.Contains("old"))
	assert.Equal(t, Succeeded, s.Status())
}

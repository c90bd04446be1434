package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hearth/internal/model"
	"hearth/internal/repository"
)

func newTestFriendService(r *chatRepos) *friendService {
	s := NewFriendService(r.parents, r.children, r.friendships, r.notes, zerolog.Nop()).(*friendService)
	s.now = func() time.Time { return chatNow }
	return s
}

func TestFriendService_Request(t *testing.T) {
	mia := &model.Child{ID: "mia", ParentID: "p1", Username: "mia", DisplayName: "Mia"}
	leo := &model.Child{ID: "leo", ParentID: "p2", Username: "leo", DisplayName: "Leo"}

	t.Run("new request emails the addressee's parent", func(t *testing.T) {
		r := newChatRepos()
		r.children.On("FindByID", mock.Anything, "mia").Return(mia, nil)
		r.children.On("FindByUsername", mock.Anything, "leo").Return(leo, nil)
		r.friendships.On("FindBetween", mock.Anything, "mia", "leo").Return(nil, sql.ErrNoRows)
		r.friendships.On("Create", mock.Anything, mock.MatchedBy(func(f *model.Friendship) bool {
			return f.RequesterID == "mia" && f.AddresseeID == "leo" && f.Status == model.FriendshipPending
		})).Return(&model.Friendship{ID: "f1", Status: model.FriendshipPending}, nil)
		r.parents.On("FindByID", mock.Anything, "p2").Return(&model.Parent{ID: "p2", Email: "p2@example.com"}, nil)

		f, err := newTestFriendService(r).Request(context.Background(), "mia", " LEO ")
		require.NoError(t, err)
		assert.Equal(t, "f1", f.ID)
		assert.Equal(t, []string{"friend:p2@example.com"}, r.notes.calls)
		r.assert(t)
	})

	t.Run("self", func(t *testing.T) {
		r := newChatRepos()
		r.children.On("FindByID", mock.Anything, "mia").Return(mia, nil)
		r.children.On("FindByUsername", mock.Anything, "mia").Return(mia, nil)

		_, err := newTestFriendService(r).Request(context.Background(), "mia", "mia")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("existing request in either direction", func(t *testing.T) {
		r := newChatRepos()
		r.children.On("FindByID", mock.Anything, "mia").Return(mia, nil)
		r.children.On("FindByUsername", mock.Anything, "leo").Return(leo, nil)
		r.friendships.On("FindBetween", mock.Anything, "mia", "leo").
			Return(&model.Friendship{ID: "f1", RequesterID: "leo", AddresseeID: "mia", Status: model.FriendshipPending}, nil)

		_, err := newTestFriendService(r).Request(context.Background(), "mia", "leo")
		assert.ErrorIs(t, err, ErrConflict)
		r.friendships.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("declined request is reopened", func(t *testing.T) {
		r := newChatRepos()
		r.children.On("FindByID", mock.Anything, "mia").Return(mia, nil)
		r.children.On("FindByUsername", mock.Anything, "leo").Return(leo, nil)
		r.friendships.On("FindBetween", mock.Anything, "mia", "leo").
			Return(&model.Friendship{ID: "f1", RequesterID: "leo", AddresseeID: "mia", Status: model.FriendshipDeclined}, nil)
		r.friendships.On("Reopen", mock.Anything, "f1", "mia", "leo", chatNow).
			Return(&model.Friendship{ID: "f1", RequesterID: "mia", AddresseeID: "leo", Status: model.FriendshipPending}, nil)
		r.parents.On("FindByID", mock.Anything, "p2").Return(nil, sql.ErrNoRows)

		f, err := newTestFriendService(r).Request(context.Background(), "mia", "leo")
		require.NoError(t, err)
		assert.Equal(t, model.FriendshipPending, f.Status)
	})
}

func TestFriendService_Decide(t *testing.T) {
	pending := func() *model.Friendship {
		return &model.Friendship{ID: "f1", RequesterID: "mia", AddresseeID: "leo", Status: model.FriendshipPending}
	}
	leo := &model.Child{ID: "leo", ParentID: "p2"}

	t.Run("addressee's parent accepts", func(t *testing.T) {
		r := newChatRepos()
		r.friendships.On("FindByID", mock.Anything, "f1").Return(pending(), nil)
		r.children.On("FindByID", mock.Anything, "leo").Return(leo, nil)
		r.friendships.On("Decide", mock.Anything, "f1", model.FriendshipAccepted, chatNow).Return(nil)

		f, err := newTestFriendService(r).Decide(context.Background(), "p2", "f1", true)
		require.NoError(t, err)
		assert.Equal(t, model.FriendshipAccepted, f.Status)
		require.NotNil(t, f.DecidedAt)
	})

	t.Run("requester's parent cannot decide", func(t *testing.T) {
		r := newChatRepos()
		r.friendships.On("FindByID", mock.Anything, "f1").Return(pending(), nil)
		r.children.On("FindByID", mock.Anything, "leo").Return(leo, nil)

		_, err := newTestFriendService(r).Decide(context.Background(), "p1", "f1", true)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("already decided", func(t *testing.T) {
		r := newChatRepos()
		f := pending()
		f.Status = model.FriendshipAccepted
		r.friendships.On("FindByID", mock.Anything, "f1").Return(f, nil)
		r.children.On("FindByID", mock.Anything, "leo").Return(leo, nil)

		_, err := newTestFriendService(r).Decide(context.Background(), "p2", "f1", false)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("concurrent decision", func(t *testing.T) {
		r := newChatRepos()
		r.friendships.On("FindByID", mock.Anything, "f1").Return(pending(), nil)
		r.children.On("FindByID", mock.Anything, "leo").Return(leo, nil)
		r.friendships.On("Decide", mock.Anything, "f1", model.FriendshipDeclined, chatNow).Return(repository.ErrStale)

		_, err := newTestFriendService(r).Decide(context.Background(), "p2", "f1", false)
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestFriendService_ListFriends(t *testing.T) {
	decided := chatNow.Add(-time.Hour)
	r := newChatRepos()
	r.friendships.On("ListAccepted", mock.Anything, "mia").Return([]model.Friendship{
		{ID: "f1", RequesterID: "mia", AddresseeID: "leo", Status: model.FriendshipAccepted, DecidedAt: &decided},
		{ID: "f2", RequesterID: "gone", AddresseeID: "mia", Status: model.FriendshipAccepted},
	}, nil)
	r.children.On("FindByID", mock.Anything, "leo").Return(&model.Child{ID: "leo", Username: "leo", DisplayName: "Leo"}, nil)
	r.children.On("FindByID", mock.Anything, "gone").Return(nil, sql.ErrNoRows)

	friends, err := newTestFriendService(r).ListFriends(context.Background(), "mia")
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, Friend{FriendshipID: "f1", ChildID: "leo", Username: "leo", DisplayName: "Leo", Since: decided}, friends[0])
}

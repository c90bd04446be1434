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

	"hearth/internal/auth"
	"hearth/internal/model"
	"hearth/internal/repository"
)

func newTestFamilyService(r *chatRepos) *familyService {
	s := NewFamilyService(FamilyDeps{
		Parents:     r.parents,
		Children:    r.children,
		Timeouts:    r.timeouts,
		Messages:    r.messages,
		Hasher:      auth.NewPasswordHasher(4),
		Notifier:    r.notes,
		DefaultZone: "Europe/Berlin",
		Log:         zerolog.Nop(),
	}).(*familyService)
	s.now = func() time.Time { return chatNow }
	return s
}

func TestFamilyService_RegisterParent(t *testing.T) {
	t.Run("creates and welcomes", func(t *testing.T) {
		r := newChatRepos()
		r.parents.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Parent) bool {
			return p.Email == "ana@example.com" && p.PasswordHash != "" && p.PasswordHash != "secret-pass"
		})).Return(&model.Parent{ID: "p1", Email: "ana@example.com", Name: "Ana"}, nil)

		p, err := newTestFamilyService(r).RegisterParent(context.Background(), RegisterParentInput{
			Email: " Ana@Example.com ", Password: "secret-pass", Name: "Ana",
		})
		require.NoError(t, err)
		assert.Equal(t, "p1", p.ID)
		assert.Equal(t, []string{"welcome:ana@example.com"}, r.notes.calls)
	})

	t.Run("email taken", func(t *testing.T) {
		r := newChatRepos()
		r.parents.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrDuplicate)

		_, err := newTestFamilyService(r).RegisterParent(context.Background(), RegisterParentInput{
			Email: "ana@example.com", Password: "secret-pass", Name: "Ana",
		})
		require.ErrorIs(t, err, ErrConflict)
		assert.Empty(t, r.notes.calls)
	})
}

func TestFamilyService_Login(t *testing.T) {
	hasher := auth.NewPasswordHasher(4)
	hash, err := hasher.Hash("right-password")
	require.NoError(t, err)

	r := newChatRepos()
	r.parents.On("FindByEmail", mock.Anything, "ana@example.com").Return(&model.Parent{ID: "p1", PasswordHash: hash}, nil)
	r.parents.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, sql.ErrNoRows)
	r.children.On("FindByUsername", mock.Anything, "mia").Return(&model.Child{ID: "c1", PasswordHash: hash}, nil)
	s := newTestFamilyService(r)

	p, err := s.LoginParent(context.Background(), "ANA@example.com", "right-password")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	_, err = s.LoginParent(context.Background(), "ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = s.LoginParent(context.Background(), "nobody@example.com", "right-password")
	assert.ErrorIs(t, err, ErrUnauthorized)

	c, err := s.LoginChild(context.Background(), "Mia", "right-password")
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ID)
}

func TestFamilyService_CreateChild(t *testing.T) {
	r := newChatRepos()
	r.children.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Child) bool {
		return c.ParentID == "p1" &&
			c.Username == "mia" &&
			c.Oversight == model.OversightApprove &&
			c.QuietHours.Zone == "Europe/Berlin"
	})).Return(&model.Child{ID: "c1", ParentID: "p1"}, nil)
	s := newTestFamilyService(r)

	c, err := s.CreateChild(context.Background(), "p1", CreateChildInput{Username: "Mia", Password: "pw1234", DisplayName: "Mia"})
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ID)

	_, err = s.CreateChild(context.Background(), "p1", CreateChildInput{Username: "leo", Password: "pw1234", DisplayName: "Leo", Oversight: "strict"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.CreateChild(context.Background(), "p1", CreateChildInput{Username: "leo", Password: "pw1234", DisplayName: "Leo", Timezone: "Mars/Base"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFamilyService_Ownership(t *testing.T) {
	r := newChatRepos()
	r.children.On("FindByID", mock.Anything, "c1").Return(&model.Child{ID: "c1", ParentID: "p1"}, nil)
	r.children.On("FindByID", mock.Anything, "missing").Return(nil, sql.ErrNoRows)
	s := newTestFamilyService(r)

	_, err := s.GetChild(context.Background(), "p2", "c1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.SetOversight(context.Background(), "p2", "c1", model.OversightOff)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.ListTimeouts(context.Background(), "p1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	r.children.AssertNotCalled(t, "UpdateOversight", mock.Anything, mock.Anything, mock.Anything)
}

func TestFamilyService_GetChild(t *testing.T) {
	r := newChatRepos()
	r.children.On("FindByID", mock.Anything, "c1").Return(&model.Child{
		ID: "c1", ParentID: "p1", QuietHours: quiet(11, 13),
	}, nil)
	r.timeouts.On("ListCurrent", mock.Anything, "c1", chatNow).Return([]model.Timeout{
		{ID: "later", StartsAt: chatNow.Add(time.Hour), EndsAt: chatNow.Add(2 * time.Hour)},
		{ID: "now", StartsAt: chatNow.Add(-time.Hour), EndsAt: chatNow.Add(time.Hour)},
	}, nil)

	st, err := newTestFamilyService(r).GetChild(context.Background(), "p1", "c1")
	require.NoError(t, err)
	assert.True(t, st.InQuietHours)
	require.NotNil(t, st.ActiveTimeout)
	assert.Equal(t, "now", st.ActiveTimeout.ID)
}

func TestFamilyService_SetQuietHours(t *testing.T) {
	r := newChatRepos()
	r.children.On("FindByID", mock.Anything, "c1").Return(&model.Child{
		ID: "c1", ParentID: "p1", QuietHours: model.QuietHours{Zone: "Europe/Berlin"},
	}, nil)
	want := model.QuietHours{Enabled: true, Start: 21 * 60, End: 7 * 60, Zone: "Europe/Berlin"}
	r.children.On("UpdateQuietHours", mock.Anything, "c1", want).Return(nil)
	s := newTestFamilyService(r)

	c, err := s.SetQuietHours(context.Background(), "p1", "c1", model.QuietHours{Enabled: true, Start: 21 * 60, End: 7 * 60})
	require.NoError(t, err)
	assert.Equal(t, want, c.QuietHours)

	_, err = s.SetQuietHours(context.Background(), "p1", "c1", model.QuietHours{Enabled: true, Start: 1440, End: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
	r.children.AssertNumberOfCalls(t, "UpdateQuietHours", 1)
}

func TestFamilyService_Timeouts(t *testing.T) {
	t.Run("start", func(t *testing.T) {
		r := newChatRepos()
		r.children.On("FindByID", mock.Anything, "c1").Return(&model.Child{ID: "c1", ParentID: "p1"}, nil)
		r.timeouts.On("Create", mock.Anything, mock.MatchedBy(func(to *model.Timeout) bool {
			return to.StartsAt.Equal(chatNow) && to.EndsAt.Equal(chatNow.Add(30*time.Minute)) && to.ParentID == "p1"
		})).Return(&model.Timeout{ID: "t1", EndsAt: chatNow.Add(30 * time.Minute)}, nil)

		to, err := newTestFamilyService(r).StartTimeout(context.Background(), "p1", "c1", TimeoutInput{Minutes: 30, Reason: "homework"})
		require.NoError(t, err)
		assert.Equal(t, "t1", to.ID)
	})

	t.Run("lift belongs to another child", func(t *testing.T) {
		r := newChatRepos()
		r.children.On("FindByID", mock.Anything, "c1").Return(&model.Child{ID: "c1", ParentID: "p1"}, nil)
		r.timeouts.On("FindByID", mock.Anything, "t9").Return(&model.Timeout{ID: "t9", ChildID: "c2"}, nil)

		err := newTestFamilyService(r).LiftTimeout(context.Background(), "p1", "c1", "t9")
		assert.ErrorIs(t, err, ErrNotFound)
		r.timeouts.AssertNotCalled(t, "Lift", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("lift twice", func(t *testing.T) {
		r := newChatRepos()
		r.children.On("FindByID", mock.Anything, "c1").Return(&model.Child{ID: "c1", ParentID: "p1"}, nil)
		r.timeouts.On("FindByID", mock.Anything, "t1").Return(&model.Timeout{ID: "t1", ChildID: "c1"}, nil)
		r.timeouts.On("Lift", mock.Anything, "t1", chatNow).Return(repository.ErrStale)

		err := newTestFamilyService(r).LiftTimeout(context.Background(), "p1", "c1", "t1")
		assert.ErrorIs(t, err, ErrConflict)
	})
}

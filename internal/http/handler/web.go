package handler

import (
	"crypto/subtle"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hearth/internal/auth"
	"hearth/internal/model"
	"hearth/internal/service"
	"hearth/internal/validation"
)

const (
	// ProfileHeader selects the profile an identity acts as.
	ProfileHeader = "X-Profile-ID"
	// BillingSecretHeader authenticates the billing hook.
	BillingSecretHeader = "X-Billing-Secret"
)

// Web serves the social API.
type Web struct {
	Sessions      service.SessionService
	Accounts      service.AccountService
	Profiles      service.ProfileService
	Posts         service.PostService
	Albums        service.AlbumService
	Follows       service.FollowService
	Cookie        SessionCookie
	BillingSecret string
}

// acting resolves the profile the request acts as.
// A malformed header is treated like a profile the identity does not own.
func (h *Web) acting(c *fiber.Ctx) (*model.Profile, error) {
	profileID := strings.TrimSpace(c.Get(ProfileHeader))
	if profileID != "" {
		if _, err := uuid.Parse(profileID); err != nil {
			return nil, fmt.Errorf("%w: profile does not belong to this account", service.ErrForbidden)
		}
	}
	return h.Profiles.Acting(c.UserContext(), session(c).SubjectID, profileID)
}

func (h *Web) Register(c *fiber.Ctx) error {
	var in service.RegisterInput
	if err := validation.BindAndValidate(c, &in); err != nil {
		return fail(c, err)
	}
	acc, err := h.Accounts.Register(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return startSession(c, h.Sessions, h.Cookie, fiber.StatusCreated, acc.Identity.ID, auth.RoleIdentity, acc)
}

func (h *Web) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := validation.BindAndValidate(c, &in); err != nil {
		return fail(c, err)
	}
	id, err := h.Accounts.Login(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return fail(c, err)
	}
	return startSession(c, h.Sessions, h.Cookie, fiber.StatusOK, id.ID, auth.RoleIdentity, id)
}

func (h *Web) Logout(c *fiber.Ctx) error {
	return endSession(c, h.Sessions, h.Cookie)
}

func (h *Web) Me(c *fiber.Ctx) error {
	acc, err := h.Accounts.Account(c.UserContext(), session(c).SubjectID)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, acc)
}

// Profiles.

func (h *Web) ListProfiles(c *fiber.Ctx) error {
	items, err := h.Profiles.List(c.UserContext(), session(c).SubjectID)
	if err != nil {
		return fail(c, err)
	}
	if items == nil {
		items = []model.Profile{}
	}
	return respond(c, fiber.StatusOK, items)
}

func (h *Web) CreateProfile(c *fiber.Ctx) error {
	var in service.CreateProfileInput
	if err := validation.BindAndValidate(c, &in); err != nil {
		return fail(c, err)
	}
	p, err := h.Profiles.Create(c.UserContext(), session(c).SubjectID, in)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, p)
}

func (h *Web) PublicProfile(c *fiber.Ctx) error {
	p, err := h.Profiles.Public(c.UserContext(), c.Params("handle"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, p)
}

func (h *Web) UpdateProfile(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	var in service.UpdateProfileInput
	if err := validation.BindAndValidate(c, &in); err != nil {
		return fail(c, err)
	}
	p, err := h.Profiles.Update(c.UserContext(), session(c).SubjectID, id, in)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, p)
}

func (h *Web) DeleteProfile(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	if err := h.Profiles.Delete(c.UserContext(), session(c).SubjectID, id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Web) SetAvatar(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	media, closer, err := formMedia(c, "file")
	if err != nil {
		return fail(c, err)
	}
	if media == nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}
	defer closer.Close()

	p, err := h.Profiles.SetAvatar(c.UserContext(), session(c).SubjectID, id, media)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, p)
}

// Posts.

type postRequest struct {
	Body string `json:"body" form:"body"`
}

// CreatePost accepts JSON, or multipart with a body field and an optional file.
func (h *Web) CreatePost(c *fiber.Ctx) error {
	acting, err := h.acting(c)
	if err != nil {
		return fail(c, err)
	}
	var in postRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, validation.ErrMalformedBody)
	}
	var media *service.Media
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		var closer io.Closer
		media, closer, err = formMedia(c, "file")
		if err != nil {
			return fail(c, err)
		}
		if closer != nil {
			defer closer.Close()
		}
	}
	p, err := h.Posts.Create(c.UserContext(), acting, service.PostInput{Body: in.Body, Media: media})
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, p)
}

func (h *Web) ProfilePosts(c *fiber.Ctx) error {
	limit, offset, ok := pagination(c)
	if !ok {
		return nil
	}
	page, err := h.Posts.ListByHandle(c.UserContext(), c.Params("handle"), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, page)
}

func (h *Web) DeletePost(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	if err := h.Posts.Delete(c.UserContext(), session(c).SubjectID, id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Web) Feed(c *fiber.Ctx) error {
	limit, offset, ok := pagination(c)
	if !ok {
		return nil
	}
	acting, err := h.acting(c)
	if err != nil {
		return fail(c, err)
	}
	page, err := h.Posts.Feed(c.UserContext(), acting, limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, page)
}

// Albums.

func (h *Web) CreateAlbum(c *fiber.Ctx) error {
	var in service.AlbumInput
	if err := validation.BindAndValidate(c, &in); err != nil {
		return fail(c, err)
	}
	acting, err := h.acting(c)
	if err != nil {
		return fail(c, err)
	}
	a, err := h.Albums.Create(c.UserContext(), acting, in)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, a)
}

func (h *Web) ProfileAlbums(c *fiber.Ctx) error {
	items, err := h.Albums.ListByHandle(c.UserContext(), c.Params("handle"))
	if err != nil {
		return fail(c, err)
	}
	if items == nil {
		items = []model.Album{}
	}
	return respond(c, fiber.StatusOK, items)
}

func (h *Web) AddPhoto(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	media, closer, err := formMedia(c, "file")
	if err != nil {
		return fail(c, err)
	}
	if media == nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}
	defer closer.Close()

	photo, err := h.Albums.AddPhoto(c.UserContext(), session(c).SubjectID, id, c.FormValue("caption"), media)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, photo)
}

func (h *Web) GetAlbum(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	a, err := h.Albums.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, a)
}

// Follows.

func (h *Web) Follow(c *fiber.Ctx) error {
	acting, err := h.acting(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Follows.Follow(c.UserContext(), acting, c.Params("handle")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Web) Unfollow(c *fiber.Ctx) error {
	acting, err := h.acting(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Follows.Unfollow(c.UserContext(), acting, c.Params("handle")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Billing.

type tierRequest struct {
	IdentityID string     `json:"identity_id" validate:"required,uuid"`
	Tier       model.Tier `json:"tier" validate:"required,oneof=free plus pro"`
}

// SetTier is called by the billing provider. An empty configured secret
// disables the hook.
func (h *Web) SetTier(c *fiber.Ctx) error {
	got := c.Get(BillingSecretHeader)
	if h.BillingSecret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.BillingSecret)) != 1 {
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid billing secret")
	}
	var in tierRequest
	if err := validation.BindAndValidate(c, &in); err != nil {
		return fail(c, err)
	}
	id, err := h.Accounts.SetTier(c.UserContext(), in.IdentityID, in.Tier)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, id)
}

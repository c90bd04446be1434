package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hearth/internal/auth"
	"hearth/internal/model"
	"hearth/internal/service"
	"hearth/internal/validation"
)

// Chat serves the supervised chat API.
type Chat struct {
	Sessions service.SessionService
	Family   service.FamilyService
	Friends  service.FriendService
	Messages service.MessageService
	Cookie   SessionCookie
}

type meResponse struct {
	Role    auth.Role `json:"role"`
	Account any       `json:"account"`
}

func (h *Chat) RegisterParent(c *fiber.Ctx) error {
	var in service.RegisterParentInput
	if err := validation.BindAndValidate(c, &in); err != nil {
		return fail(c, err)
	}
	p, err := h.Family.RegisterParent(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return startSession(c, h.Sessions, h.Cookie, fiber.StatusCreated, p.ID, auth.RoleParent, p)
}

func (h *Chat) LoginParent(c *fiber.Ctx) error {
	var in loginRequest
	if err := validation.BindAndValidate(c, &in); err != nil {
		return fail(c, err)
	}
	p, err := h.Family.LoginParent(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return fail(c, err)
	}
	return startSession(c, h.Sessions, h.Cookie, fiber.StatusOK, p.ID, auth.RoleParent, p)
}

func (h *Chat) LoginChild(c *fiber.Ctx) error {
	var in childLoginRequest
	if err := validation.BindAndValidate(c, &in); err != nil {
		return fail(c, err)
	}
	ch, err := h.Family.LoginChild(c.UserContext(), in.Username, in.Password)
	if err != nil {
		return fail(c, err)
	}
	return startSession(c, h.Sessions, h.Cookie, fiber.StatusOK, ch.ID, auth.RoleChild, ch)
}

func (h *Chat) Logout(c *fiber.Ctx) error {
	return endSession(c, h.Sessions, h.Cookie)
}

func (h *Chat) Me(c *fiber.Ctx) error {
	s := session(c)
	var (
		account any
		err     error
	)
	switch s.Role {
	case auth.RoleParent:
		account, err = h.Family.Parent(c.UserContext(), s.SubjectID)
	default:
		account, err = h.Family.Child(c.UserContext(), s.SubjectID)
	}
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, meResponse{Role: s.Role, Account: account})
}

// Parental controls.

func (h *Chat) CreateChild(c *fiber.Ctx) error {
	var in service.CreateChildInput
	if err := validation.BindAndValidate(c, &in); err != nil {
		return fail(c, err)
	}
	ch, err := h.Family.CreateChild(c.UserContext(), session(c).SubjectID, in)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, ch)
}

func (h *Chat) ListChildren(c *fiber.Ctx) error {
	items, err := h.Family.ListChildren(c.UserContext(), session(c).SubjectID)
	if err != nil {
		return fail(c, err)
	}
	if items == nil {
		items = []model.Child{}
	}
	return respond(c, fiber.StatusOK, items)
}

func (h *Chat) GetChild(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	st, err := h.Family.GetChild(c.UserContext(), session(c).SubjectID, id)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, st)
}

type oversightRequest struct {
	Mode model.OversightMode `json:"mode" validate:"required,oneof=off monitor approve"`
}

func (h *Chat) SetOversight(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	var in oversightRequest
	if err := validation.BindAndValidate(c, &in); err != nil {
		return fail(c, err)
	}
	ch, err := h.Family.SetOversight(c.UserContext(), session(c).SubjectID, id, in.Mode)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, ch)
}

type quietHoursRequest struct {
	Enabled  bool   `json:"enabled"`
	Start    int    `json:"start_minute" validate:"min=0,max=1439"`
	End      int    `json:"end_minute" validate:"min=0,max=1439"`
	Timezone string `json:"timezone" validate:"omitempty,timezone"`
}

func (h *Chat) SetQuietHours(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	var in quietHoursRequest
	if err := validation.BindAndValidate(c, &in); err != nil {
		return fail(c, err)
	}
	q := model.QuietHours{Enabled: in.Enabled, Start: in.Start, End: in.End, Zone: in.Timezone}
	ch, err := h.Family.SetQuietHours(c.UserContext(), session(c).SubjectID, id, q)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, ch)
}

func (h *Chat) StartTimeout(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	var in service.TimeoutInput
	if err := validation.BindAndValidate(c, &in); err != nil {
		return fail(c, err)
	}
	t, err := h.Family.StartTimeout(c.UserContext(), session(c).SubjectID, id, in)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, t)
}

func (h *Chat) ListTimeouts(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	items, err := h.Family.ListTimeouts(c.UserContext(), session(c).SubjectID, id)
	if err != nil {
		return fail(c, err)
	}
	if items == nil {
		items = []model.Timeout{}
	}
	return respond(c, fiber.StatusOK, items)
}

func (h *Chat) LiftTimeout(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	timeoutID, ok := idParam(c, "timeoutID")
	if !ok {
		return nil
	}
	if err := h.Family.LiftTimeout(c.UserContext(), session(c).SubjectID, id, timeoutID); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Chat) ChildMessages(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	limit, offset, ok := pagination(c)
	if !ok {
		return nil
	}
	page, err := h.Family.ChildMessages(c.UserContext(), session(c).SubjectID, id, limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, page)
}

// Friendships.

type friendRequest struct {
	Username string `json:"username" validate:"required"`
}

func (h *Chat) RequestFriend(c *fiber.Ctx) error {
	var in friendRequest
	if err := validation.BindAndValidate(c, &in); err != nil {
		return fail(c, err)
	}
	f, err := h.Friends.Request(c.UserContext(), session(c).SubjectID, in.Username)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, f)
}

func (h *Chat) ListFriends(c *fiber.Ctx) error {
	items, err := h.Friends.ListFriends(c.UserContext(), session(c).SubjectID)
	if err != nil {
		return fail(c, err)
	}
	if items == nil {
		items = []service.Friend{}
	}
	return respond(c, fiber.StatusOK, items)
}

func (h *Chat) PendingFriendships(c *fiber.Ctx) error {
	items, err := h.Friends.PendingForParent(c.UserContext(), session(c).SubjectID)
	if err != nil {
		return fail(c, err)
	}
	if items == nil {
		items = []service.FriendRequest{}
	}
	return respond(c, fiber.StatusOK, items)
}

func (h *Chat) decideFriendship(accept bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c, "id")
		if !ok {
			return nil
		}
		f, err := h.Friends.Decide(c.UserContext(), session(c).SubjectID, id, accept)
		if err != nil {
			return fail(c, err)
		}
		return respond(c, fiber.StatusOK, f)
	}
}

// Messages.

func (h *Chat) SendMessage(c *fiber.Ctx) error {
	var in service.SendInput
	if err := validation.BindAndValidate(c, &in); err != nil {
		return fail(c, err)
	}
	res, err := h.Messages.Send(c.UserContext(), session(c).SubjectID, in)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, res)
}

func (h *Chat) Conversation(c *fiber.Ctx) error {
	with := c.Query("with")
	if _, err := uuid.Parse(with); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", "query parameter with must be a child id")
	}
	limit, offset, ok := pagination(c)
	if !ok {
		return nil
	}
	page, err := h.Messages.Conversation(c.UserContext(), session(c).SubjectID, with, limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, page)
}

func (h *Chat) PendingApprovals(c *fiber.Ctx) error {
	items, err := h.Messages.PendingApprovals(c.UserContext(), session(c).SubjectID)
	if err != nil {
		return fail(c, err)
	}
	if items == nil {
		items = []model.Message{}
	}
	return respond(c, fiber.StatusOK, items)
}

func (h *Chat) ApproveMessage(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	m, err := h.Messages.Approve(c.UserContext(), session(c).SubjectID, id)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, m)
}

type denyRequest struct {
	Reason string `json:"reason" validate:"max=200"`
}

func (h *Chat) DenyMessage(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return nil
	}
	var in denyRequest
	if len(c.Body()) > 0 {
		if err := validation.BindAndValidate(c, &in); err != nil {
			return fail(c, err)
		}
	}
	m, err := h.Messages.Deny(c.UserContext(), session(c).SubjectID, id, in.Reason)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, m)
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"hearth/internal/auth"
	"hearth/internal/http/middleware"
)

// RegisterHealth mounts /health and /healthz.
func RegisterHealth(app *fiber.App, db Pinger) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
}

// RegisterChatRoutes mounts the chat API under /api/chat.
func RegisterChatRoutes(app *fiber.App, h *Chat) {
	api := app.Group("/api/chat")
	authed := middleware.Authenticate(h.Sessions, h.Cookie.Name)
	parent := middleware.RequireRole(auth.RoleParent)
	child := middleware.RequireRole(auth.RoleChild)

	api.Post("/auth/parents/register", h.RegisterParent)
	api.Post("/auth/parents/login", h.LoginParent)
	api.Post("/auth/children/login", h.LoginChild)
	api.Post("/auth/logout", authed, h.Logout)
	api.Get("/auth/me", authed, h.Me)

	api.Post("/children", authed, parent, h.CreateChild)
	api.Get("/children", authed, parent, h.ListChildren)
	api.Get("/children/:id", authed, parent, h.GetChild)
	api.Patch("/children/:id/oversight", authed, parent, h.SetOversight)
	api.Put("/children/:id/quiet-hours", authed, parent, h.SetQuietHours)
	api.Post("/children/:id/timeouts", authed, parent, h.StartTimeout)
	api.Get("/children/:id/timeouts", authed, parent, h.ListTimeouts)
	api.Delete("/children/:id/timeouts/:timeoutID", authed, parent, h.LiftTimeout)
	api.Get("/children/:id/messages", authed, parent, h.ChildMessages)

	api.Post("/friends", authed, child, h.RequestFriend)
	api.Get("/friends", authed, child, h.ListFriends)
	api.Get("/friendships/pending", authed, parent, h.PendingFriendships)
	api.Post("/friendships/:id/accept", authed, parent, h.decideFriendship(true))
	api.Post("/friendships/:id/decline", authed, parent, h.decideFriendship(false))

	api.Post("/messages", authed, child, h.SendMessage)
	api.Get("/messages", authed, child, h.Conversation)
	api.Get("/approvals", authed, parent, h.PendingApprovals)
	api.Post("/messages/:id/approve", authed, parent, h.ApproveMessage)
	api.Post("/messages/:id/deny", authed, parent, h.DenyMessage)
}

// RegisterWebRoutes mounts the social API under /api/web. Reads of public
// profiles, posts and albums need no session.
func RegisterWebRoutes(app *fiber.App, h *Web) {
	api := app.Group("/api/web")
	authed := middleware.Authenticate(h.Sessions, h.Cookie.Name)
	identity := middleware.RequireRole(auth.RoleIdentity)

	api.Post("/auth/register", h.Register)
	api.Post("/auth/login", h.Login)
	api.Post("/auth/logout", authed, h.Logout)
	api.Get("/auth/me", authed, identity, h.Me)

	api.Get("/profiles", authed, identity, h.ListProfiles)
	api.Post("/profiles", authed, identity, h.CreateProfile)
	api.Get("/profiles/:handle", h.PublicProfile)
	api.Patch("/profiles/:id", authed, identity, h.UpdateProfile)
	api.Delete("/profiles/:id", authed, identity, h.DeleteProfile)
	api.Put("/profiles/:id/avatar", authed, identity, h.SetAvatar)
	api.Get("/profiles/:handle/posts", h.ProfilePosts)
	api.Get("/profiles/:handle/albums", h.ProfileAlbums)
	api.Post("/profiles/:handle/follow", authed, identity, h.Follow)
	api.Delete("/profiles/:handle/follow", authed, identity, h.Unfollow)

	api.Post("/posts", authed, identity, h.CreatePost)
	api.Delete("/posts/:id", authed, identity, h.DeletePost)
	api.Get("/feed", authed, identity, h.Feed)

	api.Post("/albums", authed, identity, h.CreateAlbum)
	api.Get("/albums/:id", h.GetAlbum)
	api.Post("/albums/:id/photos", authed, identity, h.AddPhoto)

	api.Post("/billing/tier", h.SetTier)
}

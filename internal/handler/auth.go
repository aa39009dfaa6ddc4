package handler // handler package contains the auth endpoints

import (
	"errors"   // errors matches the repository sentinels
	"net/http" // http defines status codes
	"time"     // time stamps the published events

	"github.com/labstack/echo/v4" // echo provides the web context and JSON helpers
	"go.uber.org/zap"             // zap logs reset requests for unknown mails

	"github.com/iliyamo/paillette/internal/config"
	"github.com/iliyamo/paillette/internal/middleware"
	"github.com/iliyamo/paillette/internal/queue"
	"github.com/iliyamo/paillette/internal/repository"
	"github.com/iliyamo/paillette/internal/service"
	"github.com/iliyamo/paillette/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg       config.Config
	Accounts  *service.Accounts
	Publisher service.Publisher
}

func NewAuthHandler(cfg config.Config, a *service.Accounts, p service.Publisher) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: a, Publisher: p}
}

type personPart struct { // public view of a person, never the password hash
	ID    uint64 `json:"id"`    // person id, also the token subject
	Name  string `json:"name"`  // display name
	Mail  string `json:"mail"`  // login mail
	Phone string `json:"phone"` // optional phone number
}

type authResp struct {
	Person personPart        `json:"person"`
	Access utils.AccessToken `json:"access"`
}

// Login checks the credentials of a non-artist person and issues an access
// token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil { // bind incoming JSON
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.Validate(); err != nil { // mail and password are required
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	p, err := h.Accounts.Authenticate(ctx, req.Mail, req.Password) // artists never match
	if err != nil {
		return fail(c, err) // 401 on bad credentials
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, p.ID, h.Cfg.AccessTTLMin) // sign a short lived token
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, authResp{
		Person: personPart{ID: p.ID, Name: p.Name, Mail: p.Mail, Phone: p.Phone},
		Access: access,
	})
}

// LostPassword stores a reset token for the given mail.  The answer does
// not reveal whether the mail belongs to anyone.
func (h *AuthHandler) LostPassword(c echo.Context) error {
	var req lostPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.Validate(); err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	token, err := h.Accounts.RequestReset(ctx, req.Mail)
	if errors.Is(err, repository.ErrPersonNotFound) { // same answer as a known mail
		zap.L().Info("password reset for unknown mail")
		return c.NoContent(http.StatusAccepted)
	}
	if err != nil {
		return fail(c, err)
	}
	h.Publisher.Publish(ctx, queue.Event{
		Type:   queue.PasswordReset,
		Detail: "mail=" + repository.NormalizeMail(req.Mail),
		At:     time.Now().UTC().Format(time.RFC3339),
	})
	if !h.Cfg.IsProd() { // no mailer outside prod, hand the token back
		return c.JSON(http.StatusAccepted, echo.Map{"token": token})
	}
	return c.NoContent(http.StatusAccepted)
}

// ResetPassword consumes a reset token.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.Validate(); err != nil {
		return fail(c, err)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	if err := h.Accounts.ResetPassword(ctx, req.Token, req.Password, req.Confirm); err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) { // unknown or already consumed
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or used token"})
		}
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated person.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	p, err := h.Accounts.Persons.GetByID(ctx, middleware.ActorID(c)) // actor set by the JWT middleware
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, personPart{ID: p.ID, Name: p.Name, Mail: p.Mail, Phone: p.Phone})
}

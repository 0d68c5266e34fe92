package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/2gazb/BargainDrivingServer/internal/config"
	"github.com/2gazb/BargainDrivingServer/internal/middleware"
	"github.com/2gazb/BargainDrivingServer/internal/model"
	"github.com/2gazb/BargainDrivingServer/internal/queue"
	"github.com/2gazb/BargainDrivingServer/internal/repository"
	"github.com/2gazb/BargainDrivingServer/internal/token"
	"github.com/2gazb/BargainDrivingServer/internal/utils"
)

// mobilePlaceholderPassword is stored for self-registered mobile users.
// They authenticate by device token only; the column is non-null so
// something has to be there, and it is hashed like any other password.
const mobilePlaceholderPassword = "bargain_user"

// AccountPublisher emits an account lifecycle event.  The production
// wiring uses service.PublishAccountEvent; tests inject their own or
// leave it nil to disable publishing.
type AccountPublisher func(ctx context.Context, ev queue.AccountEvent) error

// UserHandler bundles dependencies for the account endpoints.
type UserHandler struct {
	Cfg     config.Config
	Users   repository.UserStore
	Signer  *token.Signer
	Publish AccountPublisher
}

func NewUserHandler(cfg config.Config, users repository.UserStore, signer *token.Signer, publish AccountPublisher) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users, Signer: signer, Publish: publish}
}

// ----- DTOs -----

type mobileUserReq struct {
	DeviceToken string `json:"deviceToken"`
}
type adminRegisterReq struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}
type editUserReq struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type userResp struct {
	Status string           `json:"status"`
	User   model.PublicUser `json:"user"`
}
type loginResp struct {
	Status       string           `json:"status"`
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	User         model.PublicUser `json:"user"`
}
type refreshResp struct {
	Status      string `json:"status"`
	AccessToken string `json:"accessToken"`
}
type allUsersResp struct {
	Status string             `json:"status"`
	Users  []model.PublicUser `json:"users"`
}

const statusSuccess = "success"

// LoginMobile authenticates a mobile user by device token.  The lookup
// is filtered by role, and a username that exists under another role is
// reported exactly like a username that does not exist at all so that
// account existence does not leak across roles.
func (h *UserHandler) LoginMobile(c echo.Context) error {
	var req mobileUserReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.DeviceToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "deviceToken required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindByUsernameAndRole(ctx, strings.TrimSpace(req.DeviceToken), model.RoleMobile)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "The user doesn't exist or is not a mobile user."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return h.loginResponse(c, u)
}

// RegisterMobile self-registers a mobile user under its device token.
// A placeholder password is stored; it is never used for logging in.
func (h *UserHandler) RegisterMobile(c echo.Context) error {
	var req mobileUserReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.DeviceToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "deviceToken required"})
	}

	u := model.User{
		Username: strings.TrimSpace(req.DeviceToken),
		Password: mobilePlaceholderPassword,
		Role:     model.RoleMobile,
	}
	return h.finishRegistration(c, u)
}

// RegisterAdmin creates an admin account.  The route is gated to
// superadmin callers; the created account is always a plain admin —
// superadmins only ever come from the bootstrap command.
func (h *UserHandler) RegisterAdmin(c echo.Context) error {
	var req adminRegisterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username required"})
	}
	if !validPassword(req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 printable ASCII characters"})
	}

	u := model.User{
		Username:  req.Username,
		FirstName: &req.FirstName,
		LastName:  &req.LastName,
		Password:  req.Password,
		Role:      model.RoleAdmin,
	}
	return h.finishRegistration(c, u)
}

// LoginAdmin issues a token pair for an already-authenticated admin.
// CredentialAuth runs before this handler and resolves the caller, so
// all that is left is signing.
func (h *UserHandler) LoginAdmin(c echo.Context) error {
	u, ok := c.Get(middleware.CurrentUserKey).(model.User)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return h.loginResponse(c, u)
}

// Refresh verifies a refresh token and mints a new access token.  The
// refresh token itself is not rotated.  The profile is re-fetched from
// the credential store because refresh payloads carry only the user ID.
func (h *UserHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refreshToken required"})
	}

	claims, err := h.Signer.VerifyRefresh(strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindByID(ctx, claims.ID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "No user found for this token."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	access, err := h.Signer.SignAccess(u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, refreshResp{Status: statusSuccess, AccessToken: access})
}

// Status returns the public projection of the authenticated caller.
func (h *UserHandler) Status(c echo.Context) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindByID(ctx, claims.ID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "No user found for this token."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, userResp{Status: statusSuccess, User: u.Public()})
}

// GetAll lists the public projections of every user.  Superadmin only.
func (h *UserHandler) GetAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	public := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	return c.JSON(http.StatusOK, allUsersResp{Status: statusSuccess, Users: public})
}

// Edit updates the first and last name of the authenticated caller.
// The subject is the principal itself, not an arbitrary target user.
func (h *UserHandler) Edit(c echo.Context) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req editUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindByID(ctx, claims.ID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "No user found for this token."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	u.FirstName = &req.FirstName
	u.LastName = &req.LastName
	updated, err := h.Users.Update(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, userResp{Status: statusSuccess, User: updated.Public()})
}

// finishRegistration is the common tail of both registration flows: an
// advisory uniqueness check, hashing the password in place, and the
// insert.  The unique index on users.username stays authoritative — a
// racing insert that loses surfaces as ErrUsernameExists and gets the
// same 400 as the pre-check.
func (h *UserHandler) finishRegistration(c echo.Context, u model.User) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Users.CountByUsername(ctx, u.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if n >= 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "This username is already registered."})
	}

	hash, err := utils.HashPassword(u.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	u.Password = hash

	created, err := h.Users.Insert(ctx, u)
	if err != nil {
		if err == repository.ErrUsernameExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "This username is already registered."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	h.publishEvent(queue.EventUserRegistered, created)
	return c.JSON(http.StatusOK, userResp{Status: statusSuccess, User: created.Public()})
}

// loginResponse signs the token pair for the user and writes the common
// login body.
func (h *UserHandler) loginResponse(c echo.Context, u model.User) error {
	access, err := h.Signer.SignAccess(u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := h.Signer.SignRefresh(u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}

	h.publishEvent(queue.EventUserLoggedIn, u)
	return c.JSON(http.StatusOK, loginResp{
		Status:       statusSuccess,
		AccessToken:  access,
		RefreshToken: refresh,
		User:         u.Public(),
	})
}

// publishEvent emits an account lifecycle event through the injected
// publisher.  Strictly best effort: the publisher logs its own failures
// and the request must not wait on broker round trips.
func (h *UserHandler) publishEvent(eventType string, u model.User) {
	if h.Publish == nil {
		return
	}
	ev := queue.AccountEvent{
		Type:       eventType,
		UserID:     u.ID,
		Username:   u.Username,
		Role:       int(u.Role),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.Publish(ctx, ev)
	}()
}

// validPassword reports whether the password is at least 8 characters
// of printable ASCII.
func validPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	for _, r := range p {
		if r < 0x20 || r > 0x7e {
			return false
		}
	}
	return true
}

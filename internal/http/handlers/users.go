package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/helpdeskhq/ticketdesk/internal/config"
	"github.com/helpdeskhq/ticketdesk/internal/domain/user"
	"github.com/helpdeskhq/ticketdesk/internal/repo/postgres"
	"github.com/helpdeskhq/ticketdesk/internal/security"
)

type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type UsersHandler struct {
	users  UserStore
	tokens TokenIssuer
	hasher security.Hasher
}

func NewUsersHandler(users UserStore, tokens TokenIssuer, hasher security.Hasher) *UsersHandler {
	return &UsersHandler{
		users:  users,
		tokens: tokens,
		hasher: hasher,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *UsersHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := h.hasher.Hash(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.users.Create(cctx, req.Name, req.Email, hash)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailTaken) {
			RespondBadRequest(ctx, "Email is already in use", nil)
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	// PasswordHash is json:"-", the hash never leaves the process
	ctx.JSON(http.StatusCreated, u)
}

func (h *UsersHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			// unknown email and wrong password produce the identical
			// response, neither factor is revealed
			RespondUnauthorized(ctx, "Invalid credentials")
			return
		}

		RespondInternal(ctx, "Could not log in")
		return
	}

	err = h.hasher.Check(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnauthorized(ctx, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(foundUser.ID, foundUser.Email)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
	})
}

func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	users, err := h.users.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	ctx.JSON(http.StatusOK, users)
}

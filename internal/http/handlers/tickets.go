package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/helpdeskhq/ticketdesk/internal/config"
	"github.com/helpdeskhq/ticketdesk/internal/domain/ticket"
	"github.com/helpdeskhq/ticketdesk/internal/http/middlewares"
	"github.com/helpdeskhq/ticketdesk/internal/repo/postgres"
)

type TicketStore interface {
	Create(ctx context.Context, req ticket.CreateTicketRequest) (ticket.Ticket, error)
	GetByID(ctx context.Context, id int64) (ticket.Ticket, error)
	List(ctx context.Context) ([]ticket.Ticket, error)
}

// TicketListCache sits in front of List; a nil cache disables it.
type TicketListCache interface {
	GetTicketList(ctx context.Context) ([]ticket.Ticket, error)
	SetTicketList(ctx context.Context, tickets []ticket.Ticket) error
	InvalidateTicketList(ctx context.Context) error
}

type TicketsHandler struct {
	tickets TicketStore
	users   UserStore
	cache   TicketListCache
}

func NewTicketsHandler(tickets TicketStore, users UserStore, cache TicketListCache) *TicketsHandler {
	return &TicketsHandler{
		tickets: tickets,
		users:   users,
		cache:   cache,
	}
}

func (h *TicketsHandler) ListTickets(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	if h.cache != nil {
		cached, err := h.cache.GetTicketList(cctx)

		if err == nil {
			RespondJSONWithETag(ctx, http.StatusOK, cached)
			return
		}
		// a miss or a redis hiccup both fall through to the store
	}

	tickets, err := h.tickets.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list tickets")
		return
	}

	if h.cache != nil {
		_ = h.cache.SetTicketList(cctx, tickets)
	}

	RespondJSONWithETag(ctx, http.StatusOK, tickets)
}

func (h *TicketsHandler) CreateTicket(ctx *gin.Context) {
	var req ticket.CreateTicketRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		var validatorError validator.ValidationErrors

		if errors.As(err, &validatorError) {
			RespondBadRequest(ctx, "Missing required fields", nil)
		} else {
			RespondBadRequest(ctx, "Invalid request body", nil)
		}
		return
	}

	email, ok := middlewares.EmailFromContext(ctx)

	if !ok || email == "" {
		RespondUnauthorized(ctx, "Unauthorized")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	// resolve the acting user from the verified claim, not the body
	actingUser, err := h.users.GetByEmail(cctx, email)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not create ticket")
		return
	}

	req.UserID = actingUser.ID

	t, err := h.tickets.Create(cctx, req)

	if err != nil {
		RespondInternal(ctx, "Could not create ticket")
		return
	}

	if h.cache != nil {
		_ = h.cache.InvalidateTicketList(cctx)
	}

	ctx.JSON(http.StatusCreated, t)
}

func (h *TicketsHandler) GetTicketByID(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil {
		RespondBadRequest(ctx, "Invalid ticket id", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	t, err := h.tickets.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, postgres.ErrTicketNotFound) {
			RespondNotFound(ctx, "Ticket not found")
			return
		}

		RespondInternal(ctx, "Could not fetch ticket")
		return
	}

	ctx.JSON(http.StatusOK, t)
}

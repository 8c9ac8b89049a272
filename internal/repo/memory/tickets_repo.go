package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/helpdeskhq/ticketdesk/internal/domain/ticket"
	"github.com/helpdeskhq/ticketdesk/internal/repo/postgres"
)

type TicketsRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]ticket.Ticket
}

func NewTicketsRepo() *TicketsRepo {
	return &TicketsRepo{
		nextID: 1,
		items:  make(map[int64]ticket.Ticket),
	}
}

func (r *TicketsRepo) Create(ctx context.Context, req ticket.CreateTicketRequest) (ticket.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()

	t := ticket.Ticket{
		ID:          r.nextID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		UserID:      req.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	r.nextID++
	r.items[t.ID] = t

	return t, nil
}

func (r *TicketsRepo) GetByID(ctx context.Context, id int64) (ticket.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]

	if !ok {
		return ticket.Ticket{}, postgres.ErrTicketNotFound
	}

	return t, nil
}

func (r *TicketsRepo) List(ctx context.Context) ([]ticket.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	output := make([]ticket.Ticket, 0, len(r.items))

	for _, t := range r.items {
		output = append(output, t)
	}

	sort.Slice(output, func(i, j int) bool {
		return output[i].ID < output[j].ID
	})

	return output, nil
}

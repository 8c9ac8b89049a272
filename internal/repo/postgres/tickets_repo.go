package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/helpdeskhq/ticketdesk/internal/domain/ticket"
	"github.com/helpdeskhq/ticketdesk/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrTicketNotFound = errors.New("ticket not found")

type TicketsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTicketsRepo(pool *pgxpool.Pool, prom *observability.Prom) *TicketsRepo {
	return &TicketsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *TicketsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *TicketsRepo) Create(ctx context.Context, req ticket.CreateTicketRequest) (ticket.Ticket, error) {
	now := time.Now().UTC()

	t := ticket.Ticket{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		UserID:      req.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.observe("tickets.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO tickets (title, description, status, user_id, created_at, updated_at)
             VALUES ($1, $2, $3, $4, $5, $6)
             RETURNING id`,
			t.Title, t.Description, t.Status, t.UserID, t.CreatedAt, t.UpdatedAt,
		).Scan(&t.ID)
	})

	if err != nil {
		return ticket.Ticket{}, err
	}

	return t, nil
}

func (r *TicketsRepo) GetByID(ctx context.Context, id int64) (ticket.Ticket, error) {
	var t ticket.Ticket

	err := r.observe("tickets.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, title, description, status, user_id, created_at, updated_at
             FROM tickets
             WHERE id = $1`,
			id,
		).Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ticket.Ticket{}, ErrTicketNotFound
		}

		return ticket.Ticket{}, err
	}

	return t, nil
}

func (r *TicketsRepo) List(ctx context.Context) ([]ticket.Ticket, error) {
	// empty slice, not nil, so an empty list serializes as []
	output := make([]ticket.Ticket, 0)

	err := r.observe("tickets.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, title, description, status, user_id, created_at, updated_at
             FROM tickets
             ORDER BY id ASC`,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var t ticket.Ticket

			err = rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.UserID, &t.CreatedAt, &t.UpdatedAt)

			if err != nil {
				return err
			}

			output = append(output, t)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

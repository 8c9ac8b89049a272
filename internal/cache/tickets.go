package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/helpdeskhq/ticketdesk/internal/domain/ticket"
	"github.com/redis/go-redis/v9"
)

const (
	ticketListKey = "tickets:list"

	// TicketListTTL keeps the ticket list fresh enough; writes also
	// invalidate it eagerly.
	TicketListTTL = 30 * time.Second
)

var ErrCacheMiss = errors.New("cache miss")

// GetTicketList returns the cached ticket list, or ErrCacheMiss.
func (c *Client) GetTicketList(ctx context.Context) ([]ticket.Ticket, error) {
	raw, err := c.redisdb.Get(ctx, ticketListKey).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var tickets []ticket.Ticket

	if err := json.Unmarshal(raw, &tickets); err != nil {
		// corrupt entry, drop it and treat as a miss
		c.redisdb.Del(ctx, ticketListKey)
		return nil, ErrCacheMiss
	}

	return tickets, nil
}

func (c *Client) SetTicketList(ctx context.Context, tickets []ticket.Ticket) error {
	raw, err := json.Marshal(tickets)

	if err != nil {
		return err
	}

	err = c.redisdb.SetEx(ctx, ticketListKey, raw, TicketListTTL).Err()

	if err != nil {
		return fmt.Errorf("failed to cache ticket list: %w", err)
	}

	return nil
}

// InvalidateTicketList removes the cached list after a write.
func (c *Client) InvalidateTicketList(ctx context.Context) error {
	return c.redisdb.Del(ctx, ticketListKey).Err()
}

package observability

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
)

func TestObserveDBRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewProm(reg)

	if err := p.ObserveDB("users.list", func() error { return nil }); err != nil {
		t.Fatalf("unexpected error from ok op: %v", err)
	}

	dup := &pgconn.PgError{Code: "23505"}

	if err := p.ObserveDB("users.create", func() error { return dup }); err != dup {
		t.Fatalf("ObserveDB swallowed the op error: got %v, want %v", err, dup)
	}

	families, err := reg.Gather()

	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	var sawDuration, sawErrors bool

	for _, mf := range families {
		switch mf.GetName() {
		case "ticketdesk_db_query_duration_seconds":
			sawDuration = true

			if len(mf.GetMetric()) != 2 {
				t.Errorf("got %d duration series, want 2 (ok and error)", len(mf.GetMetric()))
			}
		case "ticketdesk_db_errors_total":
			sawErrors = true

			for _, m := range mf.GetMetric() {
				labels := map[string]string{}

				for _, lp := range m.GetLabel() {
					labels[lp.GetName()] = lp.GetValue()
				}

				if labels["op"] != "users.create" || labels["class"] != "unique_violation" {
					t.Errorf("unexpected error labels: %v", labels)
				}

				if got := m.GetCounter().GetValue(); got != 1 {
					t.Errorf("got error count %v, want 1", got)
				}
			}
		}
	}

	if !sawDuration || !sawErrors {
		t.Errorf("missing db metric families: duration=%v errors=%v", sawDuration, sawErrors)
	}
}

func TestClassifyDBErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "unique_violation", err: &pgconn.PgError{Code: "23505"}, want: "unique_violation"},
		{name: "serialization_failure", err: &pgconn.PgError{Code: "40001"}, want: "serialization_failure"},
		{name: "deadlock", err: &pgconn.PgError{Code: "40P01"}, want: "deadlock"},
		{name: "query_canceled", err: &pgconn.PgError{Code: "57014"}, want: "query_canceled"},
		{name: "other_pg_code", err: &pgconn.PgError{Code: "22001"}, want: "pg_22001"},
		{name: "deadline", err: errors.New("context deadline exceeded"), want: "timeout"},
		{name: "connection", err: errors.New("connection refused"), want: "connection"},
		{name: "anything_else", err: errors.New("boom"), want: "unknown"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			if got := classifyDBErr(tt.err); got != tt.want {
				t.Errorf("got class %q, want %q", got, tt.want)
			}
		})
	}
}

package postgres

import (
	"context"
	"fmt"
)

// schema crea las tablas si no existen. Los montos son NUMERIC para no perder
// precisión; number es el consecutivo visible de la factura.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	username      VARCHAR(100) NOT NULL UNIQUE,
	password_hash VARCHAR(128) NOT NULL,
	created_at    TIMESTAMPTZ  NOT NULL
);

CREATE TABLE IF NOT EXISTS invoices (
	id            UUID PRIMARY KEY,
	number        BIGSERIAL    NOT NULL UNIQUE,
	client_name   VARCHAR(150) NOT NULL,
	tax_rate      NUMERIC(12,4) NOT NULL DEFAULT 0,
	discount_rate NUMERIC(12,4) NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ  NOT NULL,
	updated_at    TIMESTAMPTZ  NOT NULL
);

CREATE INDEX IF NOT EXISTS invoices_created_at_idx ON invoices (created_at DESC);

CREATE TABLE IF NOT EXISTS invoice_items (
	id         UUID PRIMARY KEY,
	invoice_id UUID NOT NULL REFERENCES invoices (id) ON DELETE CASCADE,
	position   INTEGER      NOT NULL,
	name       VARCHAR(150) NOT NULL,
	quantity   NUMERIC(14,4) NOT NULL,
	price      NUMERIC(14,4) NOT NULL
);

CREATE INDEX IF NOT EXISTS invoice_items_invoice_idx ON invoice_items (invoice_id, position);
`

// EnsureSchema aplica el esquema (idempotente).
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("aplicar esquema: %w", err)
	}
	return nil
}

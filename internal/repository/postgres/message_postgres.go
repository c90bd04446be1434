package postgres

import (
	"context"
	"database/sql"
	"time"

	"hearth/internal/model"
	"hearth/internal/repository"
)

// MessagePostgres is a PostgreSQL implementation of repository.MessageRepository.
type MessagePostgres struct {
	db *sql.DB
}

// NewMessagePostgres creates a new MessagePostgres repository.
func NewMessagePostgres(db *sql.DB) *MessagePostgres {
	return &MessagePostgres{db: db}
}

var _ repository.MessageRepository = (*MessagePostgres)(nil)

const messageColumns = `m.id, m.sender_id, m.recipient_id, m.body, m.status, m.deny_reason,
		m.decided_by, m.created_at, m.decided_at, m.delivered_at`

func scanMessage(s scanner) (*model.Message, error) {
	var (
		m         model.Message
		decidedBy sql.NullString
		decided   sql.NullTime
		delivered sql.NullTime
	)
	if err := s.Scan(
		&m.ID,
		&m.SenderID,
		&m.RecipientID,
		&m.Body,
		&m.Status,
		&m.DenyReason,
		&decidedBy,
		&m.CreatedAt,
		&decided,
		&delivered,
	); err != nil {
		return nil, err
	}
	m.DecidedBy = decidedBy.String
	m.DecidedAt = timePtr(decided)
	m.DeliveredAt = timePtr(delivered)
	return &m, nil
}

func (r *MessagePostgres) list(ctx context.Context, q string, args ...any) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// Create inserts a message and returns the stored record.
func (r *MessagePostgres) Create(ctx context.Context, m *model.Message) (*model.Message, error) {
	const q = `
		INSERT INTO messages AS m (id, sender_id, recipient_id, body, status, created_at, delivered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + messageColumns
	return scanMessage(r.db.QueryRowContext(ctx, q,
		m.ID,
		m.SenderID,
		m.RecipientID,
		m.Body,
		m.Status,
		m.CreatedAt,
		nullTime(m.DeliveredAt),
	))
}

// FindByID fetches a message by ID.
func (r *MessagePostgres) FindByID(ctx context.Context, id string) (*model.Message, error) {
	const q = `SELECT ` + messageColumns + ` FROM messages m WHERE m.id = $1`
	return scanMessage(r.db.QueryRowContext(ctx, q, id))
}

// Conversation returns the child's view of its exchange with another child.
func (r *MessagePostgres) Conversation(ctx context.Context, childID, otherID string, pq repository.PageQuery) (*repository.PageResult[model.Message], error) {
	const where = `
		WHERE (m.sender_id = $1 AND m.recipient_id = $2)
		   OR (m.sender_id = $2 AND m.recipient_id = $1 AND m.status = 'delivered')
	`
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages m`+where, childID, otherID).Scan(&total); err != nil {
		return nil, err
	}

	// Page from the newest end, then return the page oldest first.
	q := `
		SELECT * FROM (
			SELECT ` + messageColumns + `
			FROM messages m` + where + `
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT $3 OFFSET $4
		) m
		ORDER BY m.created_at, m.id
	`
	items, err := r.list(ctx, q, childID, otherID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Message]{Items: items, Total: total}, nil
}

// ListByChild returns every message a child sent or received, newest first.
func (r *MessagePostgres) ListByChild(ctx context.Context, childID string, pq repository.PageQuery) (*repository.PageResult[model.Message], error) {
	const qCount = `SELECT COUNT(*) FROM messages m WHERE m.sender_id = $1 OR m.recipient_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, childID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + messageColumns + `
		FROM messages m
		WHERE m.sender_id = $1 OR m.recipient_id = $1
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $2 OFFSET $3
	`
	items, err := r.list(ctx, qList, childID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Message]{Items: items, Total: total}, nil
}

// ListPendingForParent returns messages awaiting a parent's decision.
func (r *MessagePostgres) ListPendingForParent(ctx context.Context, parentID string) ([]model.Message, error) {
	const q = `
		SELECT ` + messageColumns + `
		FROM messages m
		JOIN children c ON c.id = m.sender_id
		WHERE c.parent_id = $1 AND m.status = 'pending'
		ORDER BY m.created_at, m.id
	`
	return r.list(ctx, q, parentID)
}

// SaveDecision persists a parent's decision on a message that is still pending.
func (r *MessagePostgres) SaveDecision(ctx context.Context, m *model.Message) error {
	const q = `
		UPDATE messages
		SET status = $2, deny_reason = $3, decided_by = $4, decided_at = $5
		WHERE id = $1 AND status = 'pending'
	`
	res, err := r.db.ExecContext(ctx, q, m.ID, m.Status, m.DenyReason, nullString(m.DecidedBy), nullTime(m.DecidedAt))
	return expectOne(res, err)
}

// MarkDelivered delivers an approved message exactly once.
func (r *MessagePostgres) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE messages SET status = 'delivered', delivered_at = $2 WHERE id = $1 AND status = 'approved'`
	res, err := r.db.ExecContext(ctx, q, id, at)
	return expectOne(res, err)
}

// ListHeld returns approved messages still waiting for the recipient.
func (r *MessagePostgres) ListHeld(ctx context.Context, recipientID string) ([]model.Message, error) {
	const q = `
		SELECT ` + messageColumns + `
		FROM messages m
		WHERE m.recipient_id = $1 AND m.status = 'approved'
		ORDER BY m.created_at, m.id
	`
	return r.list(ctx, q, recipientID)
}

// ListHeldRecipients pages through recipients that have held messages.
func (r *MessagePostgres) ListHeldRecipients(ctx context.Context, after string, limit int) ([]string, error) {
	const q = `
		SELECT recipient_id::text
		FROM messages
		WHERE status = 'approved' AND recipient_id::text > $1
		GROUP BY recipient_id
		ORDER BY 1
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

package repository

import (
	"context"

	"forgecraft/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ticketColumns = `id, user_id, title, content, is_reviewed, admin_reply, created_at, updated_at`

type SupportRepository struct {
	db *pgxpool.Pool
}

func NewSupportRepository(db *pgxpool.Pool) *SupportRepository {
	return &SupportRepository{db: db}
}

func scanTicket(row pgx.Row) (*domain.SupportTicket, error) {
	var t domain.SupportTicket
	if err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Content, &t.IsReviewed, &t.AdminReply,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *SupportRepository) Create(ctx context.Context, t *domain.SupportTicket) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO support_tickets (user_id, title, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, is_reviewed, admin_reply, created_at, updated_at`,
		t.UserID, t.Title, t.Content,
	).Scan(&t.ID, &t.IsReviewed, &t.AdminReply, &t.CreatedAt, &t.UpdatedAt)
}

func (r *SupportRepository) GetByID(ctx context.Context, id int64) (*domain.SupportTicket, error) {
	return scanTicket(r.db.QueryRow(ctx,
		`SELECT `+ticketColumns+` FROM support_tickets WHERE id = $1`, id))
}

func (r *SupportRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*domain.SupportTicket, error) {
	return r.list(ctx,
		`SELECT `+ticketColumns+` FROM support_tickets
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 OFFSET $2 LIMIT $3`,
		userID, offset, limit)
}

func (r *SupportRepository) List(ctx context.Context, offset, limit int) ([]*domain.SupportTicket, error) {
	return r.list(ctx,
		`SELECT `+ticketColumns+` FROM support_tickets
		 ORDER BY is_reviewed, created_at DESC, id DESC
		 OFFSET $1 LIMIT $2`,
		offset, limit)
}

func (r *SupportRepository) list(ctx context.Context, sql string, args ...any) ([]*domain.SupportTicket, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.SupportTicket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// UpdateByAuthor edits title/content only while the ticket is unreviewed
// and owned by the caller.
func (r *SupportRepository) UpdateByAuthor(ctx context.Context, id, userID int64, title, content string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE support_tickets
		 SET title = $1, content = $2, updated_at = now()
		 WHERE id = $3 AND user_id = $4 AND is_reviewed = FALSE`,
		title, content, id, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Reply records the admin answer and permanently locks the ticket.
func (r *SupportRepository) Reply(ctx context.Context, id int64, reply string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE support_tickets
		 SET admin_reply = $1, is_reviewed = TRUE, updated_at = now()
		 WHERE id = $2`,
		reply, id,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

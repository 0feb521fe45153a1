package service

import (
	"context"
	"strings"

	"forgecraft/internal/apperr"
	"forgecraft/internal/domain"
	"forgecraft/internal/pagination"
	"forgecraft/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTicketNotFound  = apperr.NotFound("TICKET_NOT_FOUND", "support ticket not found")
	ErrTicketReviewed  = apperr.Conflict("TICKET_REVIEWED", "ticket was already reviewed")
	ErrTicketNotAuthor = apperr.Forbidden("TICKET_NOT_AUTHOR", "ticket belongs to another user")
	ErrTicketTooShort  = apperr.Validation("TICKET_TOO_SHORT", "title or content below minimum length")
	ErrEmptyReply      = apperr.Validation("EMPTY_REPLY", "reply must not be empty")
)

// SupportService deliberately skips the banned-user guard on create:
// banned users may still file tickets.
type SupportService struct {
	users   *repository.UserRepository
	tickets *repository.SupportRepository
}

func NewSupportService(db *pgxpool.Pool) *SupportService {
	return &SupportService{
		users:   repository.NewUserRepository(db),
		tickets: repository.NewSupportRepository(db),
	}
}

func validTicketBody(title, content string) bool {
	return len(strings.TrimSpace(title)) >= domain.SupportTitleMinLen &&
		len(strings.TrimSpace(content)) >= domain.SupportContentMinLen
}

func (s *SupportService) Create(ctx context.Context, userID int64, title, content string) (*domain.SupportTicket, error) {
	if !validTicketBody(title, content) {
		return nil, ErrTicketTooShort
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if repository.NotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internal(err)
	}

	ticket := &domain.SupportTicket{UserID: userID, Title: title, Content: content}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperr.Internal(err)
	}
	return ticket, nil
}

// Update lets the author edit an unreviewed ticket. The reviewed check is
// part of the conditional update, so a racing reply still wins.
func (s *SupportService) Update(ctx context.Context, userID, ticketID int64, title, content string) (*domain.SupportTicket, error) {
	if !validTicketBody(title, content) {
		return nil, ErrTicketTooShort
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if repository.NotFound(err) {
			return nil, ErrTicketNotFound
		}
		return nil, apperr.Internal(err)
	}
	if ticket.UserID != userID {
		return nil, ErrTicketNotAuthor
	}

	ok, err := s.tickets.UpdateByAuthor(ctx, ticketID, userID, title, content)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, ErrTicketReviewed
	}
	ticket.Title = title
	ticket.Content = content
	return ticket, nil
}

// Reply records the admin answer and marks the ticket reviewed for good.
func (s *SupportService) Reply(ctx context.Context, ticketID int64, reply string) error {
	if strings.TrimSpace(reply) == "" {
		return ErrEmptyReply
	}
	ok, err := s.tickets.Reply(ctx, ticketID, reply)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return ErrTicketNotFound
	}
	return nil
}

func (s *SupportService) ListByUser(ctx context.Context, userID int64, p pagination.Page) ([]*domain.SupportTicket, error) {
	res, err := s.tickets.ListByUser(ctx, userID, p.Offset, p.Limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return res, nil
}

func (s *SupportService) ListAll(ctx context.Context, p pagination.Page) ([]*domain.SupportTicket, error) {
	res, err := s.tickets.List(ctx, p.Offset, p.Limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return res, nil
}

func (s *SupportService) Get(ctx context.Context, userID int64, isAdmin bool, ticketID int64) (*domain.SupportTicket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if repository.NotFound(err) {
			return nil, ErrTicketNotFound
		}
		return nil, apperr.Internal(err)
	}
	if !isAdmin && ticket.UserID != userID {
		return nil, ErrTicketNotAuthor
	}
	return ticket, nil
}

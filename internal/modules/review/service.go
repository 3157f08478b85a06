package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"escaperoom/internal/domain"
	"escaperoom/internal/events"
	"escaperoom/internal/modules/rating"
	"escaperoom/internal/pkg/apperr"
	"escaperoom/internal/repository"

	"github.com/rs/zerolog"
)

type Service struct {
	store  Store
	events EventPublisher
	log    zerolog.Logger
	now    func() time.Time
}

func NewService(store Store, publisher EventPublisher, log zerolog.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{store: store, events: publisher, log: log, now: time.Now}
}

// Create reviews a completed booking of the requester. Only one live review may exist
// per booking; the room aggregate is recomputed in the same transaction.
func (s *Service) Create(ctx context.Context, req domain.Requester, in CreateReviewRequest) (*domain.Review, error) {
	if in.BookingID <= 0 {
		return nil, apperr.Invalid("bookingId is required")
	}
	if err := checkRating(in.Rating); err != nil {
		return nil, err
	}
	comment, err := cleanComment(in.Comment)
	if err != nil {
		return nil, err
	}

	var (
		rv      *domain.Review
		summary rating.Summary
	)
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		b, err := tx.Bookings().GetByID(ctx, in.BookingID)
		if err != nil {
			return fmt.Errorf("booking %d: %w", in.BookingID, err)
		}
		if b.UserID != req.ID {
			return fmt.Errorf("%w: booking belongs to another user", apperr.ErrForbidden)
		}
		if b.Status != domain.BookingCompleted {
			return apperr.Invalid("only completed bookings can be reviewed")
		}

		exists, err := tx.Reviews().ExistsForBooking(ctx, b.ID)
		if err != nil {
			return err
		}
		if exists {
			return errDuplicateReview
		}

		rv = &domain.Review{
			UserID:    req.ID,
			RoomID:    b.RoomID,
			BookingID: b.ID,
			Rating:    in.Rating,
			Comment:   comment,
		}
		if err := tx.Reviews().Create(ctx, rv); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return errDuplicateReview
			}
			return err
		}

		summary, err = rating.Recompute(ctx, tx.Reviews(), tx.Rooms(), rv.RoomID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, rv, summary)
	return rv, nil
}

var errDuplicateReview = fmt.Errorf("%w: booking already reviewed", apperr.ErrConflict)

// Update changes rating and/or comment of a live review. Author or admin only.
func (s *Service) Update(ctx context.Context, req domain.Requester, id int64, in UpdateReviewRequest) (*domain.Review, error) {
	var (
		rv      *domain.Review
		summary rating.Summary
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		cur, err := tx.Reviews().GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("review %d: %w", id, err)
		}
		if err := authorize(req, cur); err != nil {
			return err
		}

		if in.Rating == nil && !in.Comment.Set {
			return apperr.Invalid("no changes to apply")
		}
		score, comment := cur.Rating, cur.Comment
		if in.Rating != nil {
			if err := checkRating(*in.Rating); err != nil {
				return err
			}
			score = *in.Rating
		}
		if in.Comment.Set {
			if comment, err = cleanComment(in.Comment.Value); err != nil {
				return err
			}
		}

		if rv, err = tx.Reviews().Update(ctx, cur.ID, score, comment); err != nil {
			return err
		}
		summary, err = rating.Recompute(ctx, tx.Reviews(), tx.Rooms(), rv.RoomID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, rv, summary)
	return rv, nil
}

// Delete soft-deletes a review and recomputes the room aggregate. Author or admin only.
func (s *Service) Delete(ctx context.Context, req domain.Requester, id int64) (*domain.Review, error) {
	var (
		rv      *domain.Review
		summary rating.Summary
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		rv, err = tx.Reviews().GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("review %d: %w", id, err)
		}
		if err := authorize(req, rv); err != nil {
			return err
		}

		at := s.now()
		if err := tx.Reviews().SoftDelete(ctx, rv.ID, at); err != nil {
			return err
		}
		rv.IsDeleted = true
		rv.DeletedAt = &at

		summary, err = rating.Recompute(ctx, tx.Reviews(), tx.Rooms(), rv.RoomID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, rv, summary)
	return rv, nil
}

func (s *Service) ListMine(ctx context.Context, req domain.Requester, p ListParams) ([]domain.Review, error) {
	return s.store.Reviews().ListByUser(ctx, req.ID, p.Limit, p.Offset)
}

func (s *Service) ListByRoom(ctx context.Context, roomID int64, p ListParams) ([]domain.Review, error) {
	if roomID <= 0 {
		return nil, apperr.Invalid("invalid room id")
	}
	return s.store.Reviews().ListByRoom(ctx, roomID, p.Limit, p.Offset)
}

func authorize(req domain.Requester, rv *domain.Review) error {
	if req.Role == domain.RoleAdmin || rv.UserID == req.ID {
		return nil
	}
	return fmt.Errorf("%w: review belongs to another user", apperr.ErrForbidden)
}

func checkRating(r int) error {
	if r < 1 || r > 5 {
		return apperr.Invalid("rating must be an integer between 1 and 5")
	}
	return nil
}

func cleanComment(c *string) (string, error) {
	if c == nil {
		return "", nil
	}
	clean := strings.TrimSpace(*c)
	if utf8.RuneCountInString(clean) > domain.MaxReviewCommentLen {
		return "", apperr.Invalid("comment too long (max %d)", domain.MaxReviewCommentLen)
	}
	return clean, nil
}

func (s *Service) publish(ctx context.Context, rv *domain.Review, sum rating.Summary) {
	ev := events.New(events.ReviewChanged, rv.RoomID)
	ev.ReviewID = rv.ID
	ev.BookingID = rv.BookingID
	ev.RatingAvg = &sum.Avg
	ev.RatingCount = &sum.Count
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Int64("review_id", rv.ID).Msg("publish review event")
	}
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"escaperoom/internal/domain"
	"escaperoom/internal/events"
	"escaperoom/internal/metrics"
	"escaperoom/internal/pkg/apperr"
	"escaperoom/internal/repository"
	"escaperoom/internal/slots"

	"github.com/rs/zerolog"
)

// localLayout is accepted for scheduledAt values without an offset; they are read in
// the operating timezone.
const localLayout = "2006-01-02T15:04"

type Config struct {
	Location           *time.Location
	CallRequiredWindow time.Duration
}

type Service struct {
	bookings BookingRepository
	rooms    RoomRepository
	users    UserRepository
	owners   OwnershipResolver
	events   EventPublisher
	log      zerolog.Logger

	loc    *time.Location
	window time.Duration
	now    func() time.Time
}

func NewService(
	bookings BookingRepository,
	rooms RoomRepository,
	users UserRepository,
	owners OwnershipResolver,
	publisher EventPublisher,
	cfg Config,
	log zerolog.Logger,
) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		bookings: bookings,
		rooms:    rooms,
		users:    users,
		owners:   owners,
		events:   publisher,
		log:      log,
		loc:      cfg.Location,
		window:   domain.CallRequiredWindow(cfg.CallRequiredWindow),
		now:      time.Now,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateBooking validates a reservation request and stores it as pending.
// Checks run in a fixed order so the same bad request always reports the same error.
func (s *Service) CreateBooking(ctx context.Context, req domain.Requester, in CreateBookingRequest) (*domain.Booking, error) {
	b, err := s.create(ctx, req, in)
	if err != nil {
		metrics.IncBookingRejected(rejectReason(err))
		return nil, err
	}
	metrics.IncBookingCreated(string(req.Role))

	ev := events.New(events.BookingCreated, b.RoomID)
	ev.BookingID = b.ID
	ev.Status = string(b.Status)
	ev.ScheduledAt = b.ScheduledAt
	s.publish(ctx, ev)
	return b, nil
}

func (s *Service) create(ctx context.Context, req domain.Requester, in CreateBookingRequest) (*domain.Booking, error) {
	customerNote, err := cleanNote(in.CustomerNote, "customerNote", domain.MaxCustomerNoteLen)
	if err != nil {
		return nil, err
	}
	internalNote, err := cleanNote(in.InternalNote, "internalNote", domain.MaxInternalNoteLen)
	if err != nil {
		return nil, err
	}

	room, err := s.rooms.GetActive(ctx, in.RoomID)
	if err != nil {
		return nil, fmt.Errorf("room %d: %w", in.RoomID, err)
	}

	at, err := s.parseScheduledAt(in.ScheduledAt)
	if err != nil {
		return nil, err
	}

	offered, err := slots.ForRoom(room).OffersAt(at)
	if err != nil {
		return nil, err
	}
	if !offered {
		return nil, fmt.Errorf("%w: %s on a %s", apperr.ErrSlotNotOffered, at.Format(time.RFC3339Nano), slots.DayTypeOf(at))
	}

	if in.Players < room.PlayersMin || in.Players > room.PlayersMax {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", apperr.ErrCapacityOutOfRange, in.Players, room.PlayersMin, room.PlayersMax)
	}

	if req.Role == domain.RoleUser && at.Sub(s.now()) < s.window {
		return nil, apperr.ErrCallRequired
	}

	held, err := s.bookings.ExistsActive(ctx, room.ID, at)
	if err != nil {
		return nil, err
	}
	if held {
		return nil, fmt.Errorf("%w: slot already booked", apperr.ErrConflict)
	}

	customerID := req.ID
	if req.Role.IsStaff() {
		customerID, err = s.resolveCustomer(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
	} else {
		internalNote = ""
	}

	b := &domain.Booking{
		RoomID:          room.ID,
		UserID:          customerID,
		ScheduledAt:     at,
		Players:         in.Players,
		Status:          domain.BookingPending,
		CustomerNote:    customerNote,
		InternalNote:    internalNote,
		CreatedByUserID: req.ID,
		CreatedByRole:   req.Role,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: slot already booked", apperr.ErrConflict)
		}
		return nil, err
	}
	return b, nil
}

// parseScheduledAt accepts RFC 3339 or a wall-clock time in the operating timezone and
// returns the instant expressed in that timezone.
func (s *Service) parseScheduledAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(s.loc), nil
	}
	if t, err := time.ParseInLocation(localLayout, raw, s.loc); err == nil {
		return t, nil
	}
	return time.Time{}, apperr.Invalid("scheduledAt must be a valid timestamp")
}

// resolveCustomer checks the customer an owner or admin books for.
func (s *Service) resolveCustomer(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, apperr.Invalid("userId of the customer is required for bookings made by staff")
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("user %d: %w", userID, err)
	}
	if u.IsDeleted {
		return 0, fmt.Errorf("user %d: %w", userID, apperr.ErrNotFound)
	}
	if u.Role != domain.RoleUser {
		return 0, apperr.Invalid("bookings can only be assigned to a user with role %q", domain.RoleUser)
	}
	return u.ID, nil
}

func cleanNote(note *string, field string, max int) (string, error) {
	if note == nil {
		return "", nil
	}
	clean := strings.TrimSpace(*note)
	if utf8.RuneCountInString(clean) > max {
		return "", apperr.Invalid("%s too long (max %d)", field, max)
	}
	return clean, nil
}

// entry describes one status-changing endpoint.
type entry struct {
	op Operation
	// from restricts the starting status; nil accepts any.
	from func(domain.BookingStatus) bool
}

// Transition is the generic status update shared by every role.
func (s *Service) Transition(ctx context.Context, req domain.Requester, id int64, to domain.BookingStatus) (*domain.Booking, error) {
	return s.transition(ctx, req, id, to, entry{op: OpTransition})
}

// CancelMine lets the customer of a pending booking cancel it.
func (s *Service) CancelMine(ctx context.Context, req domain.Requester, id int64) (*domain.Booking, error) {
	return s.transition(ctx, req, id, domain.BookingCancelled, entry{
		op:   OpCancelOwn,
		from: is(domain.BookingPending),
	})
}

func (s *Service) Confirm(ctx context.Context, req domain.Requester, id int64) (*domain.Booking, error) {
	return s.transition(ctx, req, id, domain.BookingConfirmed, entry{
		op:   OpManage,
		from: is(domain.BookingPending),
	})
}

func (s *Service) Complete(ctx context.Context, req domain.Requester, id int64) (*domain.Booking, error) {
	return s.transition(ctx, req, id, domain.BookingCompleted, entry{
		op:   OpManage,
		from: is(domain.BookingConfirmed),
	})
}

// OwnerCancel cancels any booking that is not completed yet.
func (s *Service) OwnerCancel(ctx context.Context, req domain.Requester, id int64) (*domain.Booking, error) {
	return s.transition(ctx, req, id, domain.BookingCancelled, entry{
		op: OpManage,
		from: func(st domain.BookingStatus) bool {
			return st != domain.BookingCompleted
		},
	})
}

func is(want domain.BookingStatus) func(domain.BookingStatus) bool {
	return func(st domain.BookingStatus) bool { return st == want }
}

func (s *Service) transition(ctx context.Context, req domain.Requester, id int64, to domain.BookingStatus, e entry) (*domain.Booking, error) {
	if !to.Valid() {
		return nil, apperr.Invalid("unknown status %q", to)
	}

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("booking %d: %w", id, err)
	}

	own, err := s.ownership(ctx, req, b)
	if err != nil {
		return nil, err
	}
	if err := Authorize(e.op, req.Role, own); err != nil {
		return nil, err
	}

	from := b.Status
	if e.from != nil && !e.from(from) {
		return nil, &apperr.TransitionError{From: string(from), To: string(to)}
	}
	if from == to {
		return redact(req, b), nil
	}
	if err := checkTransition(from, to); err != nil {
		return nil, err
	}
	if req.Role == domain.RoleUser {
		if err := customerTransition(from, to); err != nil {
			return nil, err
		}
	}

	updated, err := s.bookings.UpdateStatus(ctx, b.ID, from, to, s.now())
	if errors.Is(err, repository.ErrStaleStatus) {
		return nil, fmt.Errorf("%w: booking %d changed status concurrently", apperr.ErrConflict, b.ID)
	}
	if err != nil {
		return nil, err
	}
	metrics.IncBookingTransition(string(from), string(to))

	ev := events.New(statusEvent(to), updated.RoomID)
	ev.BookingID = updated.ID
	ev.Status = string(updated.Status)
	ev.ScheduledAt = updated.ScheduledAt
	s.publish(ctx, ev)
	return redact(req, updated), nil
}

// redact hides the internal note from requesters outside the staff.
func redact(req domain.Requester, b *domain.Booking) *domain.Booking {
	if !req.Role.IsStaff() {
		b.InternalNote = ""
	}
	return b
}

func statusEvent(to domain.BookingStatus) string {
	switch to {
	case domain.BookingConfirmed:
		return events.BookingConfirmed
	case domain.BookingCompleted:
		return events.BookingCompleted
	default:
		return events.BookingCancelled
	}
}

// ownership resolves the venue owner only for owners; other roles never need it.
func (s *Service) ownership(ctx context.Context, req domain.Requester, b *domain.Booking) (Ownership, error) {
	own := Ownership{Customer: b.UserID == req.ID}
	if req.Role != domain.RoleOwner {
		return own, nil
	}
	ownerID, err := s.owners.OwnerOfRoom(ctx, b.RoomID)
	if errors.Is(err, apperr.ErrNotFound) {
		return own, nil
	}
	if err != nil {
		return own, err
	}
	own.VenueOwner = ownerID == req.ID
	return own, nil
}

// UpdateNotes changes customerNote and/or internalNote in a single write.
func (s *Service) UpdateNotes(ctx context.Context, req domain.Requester, id int64, in UpdateNotesRequest) (*domain.Booking, error) {
	if in.CustomerNote == nil && in.InternalNote == nil {
		return nil, apperr.Invalid("no changes to apply")
	}

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("booking %d: %w", id, err)
	}
	own, err := s.ownership(ctx, req, b)
	if err != nil {
		return nil, err
	}

	customerNote, internalNote := b.CustomerNote, b.InternalNote
	if in.CustomerNote != nil {
		if err := Authorize(OpEditCustomerNote, req.Role, own); err != nil {
			return nil, err
		}
		if customerNote, err = cleanNote(in.CustomerNote, "customerNote", domain.MaxCustomerNoteLen); err != nil {
			return nil, err
		}
	}
	if in.InternalNote != nil {
		if err := Authorize(OpEditInternalNote, req.Role, own); err != nil {
			return nil, err
		}
		if internalNote, err = cleanNote(in.InternalNote, "internalNote", domain.MaxInternalNoteLen); err != nil {
			return nil, err
		}
	}

	updated, err := s.bookings.UpdateNotes(ctx, b.ID, customerNote, internalNote)
	if err != nil {
		return nil, err
	}
	return redact(req, updated), nil
}

// Delete is the administrative soft removal. It is not a cancellation and leaves the
// status as it was.
func (s *Service) Delete(ctx context.Context, req domain.Requester, id int64) error {
	if err := Authorize(OpDelete, req.Role, Ownership{}); err != nil {
		return err
	}
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("booking %d: %w", id, err)
	}
	if err := s.bookings.SoftDelete(ctx, b.ID, s.now()); err != nil {
		return err
	}

	ev := events.New(events.BookingDeleted, b.RoomID)
	ev.BookingID = b.ID
	ev.ScheduledAt = b.ScheduledAt
	s.publish(ctx, ev)
	return nil
}

// ListMine returns the requester's bookings without internal notes.
func (s *Service) ListMine(ctx context.Context, req domain.Requester, p ListParams) ([]domain.Booking, error) {
	list, err := s.bookings.ListByUser(ctx, req.ID, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].InternalNote = ""
	}
	return list, nil
}

// ListOwner returns the bookings of the owner's venues; admins see every venue.
func (s *Service) ListOwner(ctx context.Context, req domain.Requester, p OwnerListParams) ([]domain.Booking, error) {
	if !req.Role.IsStaff() {
		return nil, apperr.ErrForbidden
	}
	if p.Status != "" && !p.Status.Valid() {
		return nil, apperr.Invalid("unknown status %q", p.Status)
	}

	f := repository.BookingFilter{
		Status: p.Status,
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	if req.Role == domain.RoleOwner {
		f.OwnerID = req.ID
	}
	return s.bookings.ListForOwner(ctx, f)
}

func (s *Service) publish(ctx context.Context, ev events.Event) {
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).
			Str("event", ev.Type).
			Int64("booking_id", ev.BookingID).
			Msg("publish booking event")
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperr.ErrNoSlotsConfigured):
		return "no_slots_configured"
	case errors.Is(err, apperr.ErrSlotNotOffered):
		return "slot_not_offered"
	case errors.Is(err, apperr.ErrCapacityOutOfRange):
		return "capacity_out_of_range"
	case errors.Is(err, apperr.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, apperr.ErrCallRequired):
		return "call_required"
	case errors.Is(err, apperr.ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}

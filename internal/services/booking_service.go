package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/models"
	"github.com/ArvinYang1925/fitness-booking-backend/internal/repository"
)

var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrAlreadyBooked      = errors.New("already booked")
	ErrNoRemainingCredits = errors.New("no remaining credits")
	ErrCourseFull         = errors.New("course full")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrCancelFailed       = errors.New("cancel failed")
)

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// BookingService owns the course-credit booking flow. Every operation runs
// in a transaction holding a per-course advisory lock so the duplicate,
// credit and capacity checks cannot race with a concurrent booking.
type BookingService struct {
	db txBeginner
}

func NewBookingService(db txBeginner) *BookingService {
	return &BookingService{db: db}
}

// BookCourse checks, in order: the course exists, the user holds no active
// booking for it, the user still has unused credits, and the course has
// seats left. The first failing check wins.
func (s *BookingService) BookCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseBooking, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := lockCourse(ctx, tx, courseID); err != nil {
		return nil, err
	}

	txCourseRepo := repository.NewCourseRepository(tx)
	txBookingRepo := repository.NewCourseBookingRepository(tx)
	txPurchaseRepo := repository.NewCreditPurchaseRepository(tx)

	course, err := txCourseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if _, err := txBookingRepo.FindActive(ctx, userID, courseID); err == nil {
		return nil, ErrAlreadyBooked
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	purchasedCredits, err := txPurchaseRepo.SumPurchasedCredits(ctx, userID)
	if err != nil {
		return nil, err
	}
	usedCredits, err := txBookingRepo.CountActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if usedCredits >= purchasedCredits {
		return nil, ErrNoRemainingCredits
	}

	bookedCount, err := txBookingRepo.CountActiveByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if bookedCount >= int64(course.MaxParticipants) {
		return nil, ErrCourseFull
	}

	booking, err := txBookingRepo.Create(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelBooking stamps the user's active booking for the course as
// cancelled. Cancelling twice fails: the second attempt finds no active row.
func (s *BookingService) CancelBooking(ctx context.Context, userID, courseID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := lockCourse(ctx, tx, courseID); err != nil {
		return err
	}

	txBookingRepo := repository.NewCourseBookingRepository(tx)

	if _, err := txBookingRepo.FindActive(ctx, userID, courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}

	affected, err := txBookingRepo.Cancel(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCancelFailed
	}

	return tx.Commit(ctx)
}

// lockCourse serializes booking mutations per course for the rest of the
// transaction.
func lockCourse(ctx context.Context, tx pgx.Tx, courseID uuid.UUID) error {
	_, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", courseID.String())
	return err
}

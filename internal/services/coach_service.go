package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/models"
	"github.com/ArvinYang1925/fitness-booking-backend/internal/repository"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrAlreadyCoach  = errors.New("already a coach")
	ErrCoachNotFound = errors.New("coach not found")
	ErrInvalidMonth  = errors.New("invalid month")
)

var monthsByName = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

type userReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type coachReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Coach, error)
	GetSkillIDs(ctx context.Context, coachID uuid.UUID) ([]uuid.UUID, error)
}

type courseIDLister interface {
	ListIDsByCoachUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type bookingCounter interface {
	CountInRange(ctx context.Context, courseIDs []uuid.UUID, from, to time.Time) (int64, error)
	CountDistinctUsersInRange(ctx context.Context, courseIDs []uuid.UUID, from, to time.Time) (int64, error)
}

type packagePricer interface {
	SumPricing(ctx context.Context) (totalPrice, totalCredits int64, err error)
}

type PromoteCoachInput struct {
	ExperienceYears int
	Description     string
	ProfileImageURL *string
}

type UpdateCoachProfileInput struct {
	ExperienceYears int
	Description     string
	ProfileImageURL *string
	SkillIDs        []uuid.UUID
}

type CoachProfile struct {
	ID              uuid.UUID   `json:"id"`
	ExperienceYears int         `json:"experience_years"`
	Description     string      `json:"description"`
	ProfileImageURL *string     `json:"profile_image_url"`
	SkillIDs        []uuid.UUID `json:"skill_ids"`
}

type RevenueSummary struct {
	Revenue      int64 `json:"revenue"`
	Participants int64 `json:"participants"`
	CourseCount  int64 `json:"course_count"`
}

// CoachService owns coach self-service flows: promotion, profile upkeep
// and the monthly revenue summary.
type CoachService struct {
	db          txBeginner
	userRepo    userReader
	coachRepo   coachReader
	courseRepo  courseIDLister
	bookingRepo bookingCounter
	packageRepo packagePricer
}

func NewCoachService(
	db txBeginner,
	userRepo userReader,
	coachRepo coachReader,
	courseRepo courseIDLister,
	bookingRepo bookingCounter,
	packageRepo packagePricer,
) *CoachService {
	return &CoachService{
		db:          db,
		userRepo:    userRepo,
		coachRepo:   coachRepo,
		courseRepo:  courseRepo,
		bookingRepo: bookingRepo,
		packageRepo: packageRepo,
	}
}

// PromoteToCoach flips the user's role and inserts the coach row in one
// transaction, so a failure cannot leave a half-promoted account.
func (s *CoachService) PromoteToCoach(ctx context.Context, userID uuid.UUID, input PromoteCoachInput) (*models.User, *models.Coach, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	if user.Role == models.RoleCoach {
		return nil, nil, ErrAlreadyCoach
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txUserRepo := repository.NewUserRepository(tx)
	txCoachRepo := repository.NewCoachRepository(tx)

	affected, err := txUserRepo.PromoteToCoach(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if affected == 0 {
		// Someone else promoted the user between the read and the update.
		return nil, nil, ErrAlreadyCoach
	}

	coach, err := txCoachRepo.Create(ctx, repository.CreateCoachInput{
		UserID:          userID,
		ExperienceYears: input.ExperienceYears,
		Description:     input.Description,
		ProfileImageURL: input.ProfileImageURL,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	user.Role = models.RoleCoach
	return user, coach, nil
}

// UpdateProfile updates the coach row and replaces its skill links
// together, then reads the result back.
func (s *CoachService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateCoachProfileInput) (*CoachProfile, error) {
	coach, err := s.coachRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txCoachRepo := repository.NewCoachRepository(tx)
	if _, err := txCoachRepo.UpdateProfile(ctx, coach.ID, repository.UpdateCoachProfileInput{
		ExperienceYears: input.ExperienceYears,
		Description:     input.Description,
		ProfileImageURL: input.ProfileImageURL,
	}); err != nil {
		return nil, err
	}
	if err := txCoachRepo.ReplaceSkills(ctx, coach.ID, input.SkillIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return s.profileOf(ctx, userID)
}

func (s *CoachService) GetProfile(ctx context.Context, userID uuid.UUID) (*CoachProfile, error) {
	return s.profileOf(ctx, userID)
}

func (s *CoachService) profileOf(ctx context.Context, userID uuid.UUID) (*CoachProfile, error) {
	coach, err := s.coachRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	skillIDs, err := s.coachRepo.GetSkillIDs(ctx, coach.ID)
	if err != nil {
		return nil, err
	}
	return &CoachProfile{
		ID:              coach.ID,
		ExperienceYears: coach.ExperienceYears,
		Description:     coach.Description,
		ProfileImageURL: coach.ProfileImageURL,
		SkillIDs:        skillIDs,
	}, nil
}

// Revenue summarizes the coach's bookings for the named month of the
// current calendar year. The per-credit price is the global average over
// every package (sum of prices / sum of credits), matching how credits
// are sold rather than any single purchase.
func (s *CoachService) Revenue(ctx context.Context, userID uuid.UUID, monthName string) (*RevenueSummary, error) {
	month, ok := monthsByName[monthName]
	if !ok {
		return nil, ErrInvalidMonth
	}

	courseIDs, err := s.courseRepo.ListIDsByCoachUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(courseIDs) == 0 {
		return &RevenueSummary{}, nil
	}

	from := time.Date(time.Now().Year(), month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	bookingCount, err := s.bookingRepo.CountInRange(ctx, courseIDs, from, to)
	if err != nil {
		return nil, err
	}
	participants, err := s.bookingRepo.CountDistinctUsersInRange(ctx, courseIDs, from, to)
	if err != nil {
		return nil, err
	}

	totalPrice, totalCredits, err := s.packageRepo.SumPricing(ctx)
	if err != nil {
		return nil, err
	}

	var revenue int64
	if totalCredits > 0 {
		perCreditPrice := float64(totalPrice) / float64(totalCredits)
		revenue = int64(math.Floor(float64(bookingCount) * perCreditPrice))
	}

	return &RevenueSummary{
		Revenue:      revenue,
		Participants: participants,
		CourseCount:  bookingCount,
	}, nil
}

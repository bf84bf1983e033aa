package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/models"
	"github.com/ArvinYang1925/fitness-booking-backend/internal/repository"
	"github.com/ArvinYang1925/fitness-booking-backend/internal/services"
)

type stubCoachAdminService struct {
	promoteErr error
	profile    *services.CoachProfile
	profileErr error
	summary    *services.RevenueSummary
	revenueErr error
}

func (s *stubCoachAdminService) PromoteToCoach(_ context.Context, userID uuid.UUID, input services.PromoteCoachInput) (*models.User, *models.Coach, error) {
	if s.promoteErr != nil {
		return nil, nil, s.promoteErr
	}
	user := &models.User{ID: userID, Name: "小明", Role: models.RoleCoach}
	coach := &models.Coach{
		ID:              uuid.New(),
		UserID:          userID,
		ExperienceYears: input.ExperienceYears,
		Description:     input.Description,
		ProfileImageURL: input.ProfileImageURL,
	}
	return user, coach, nil
}

func (s *stubCoachAdminService) UpdateProfile(_ context.Context, _ uuid.UUID, input services.UpdateCoachProfileInput) (*services.CoachProfile, error) {
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	return &services.CoachProfile{
		ID:              uuid.New(),
		ExperienceYears: input.ExperienceYears,
		Description:     input.Description,
		ProfileImageURL: input.ProfileImageURL,
		SkillIDs:        input.SkillIDs,
	}, nil
}

func (s *stubCoachAdminService) GetProfile(context.Context, uuid.UUID) (*services.CoachProfile, error) {
	return s.profile, s.profileErr
}

func (s *stubCoachAdminService) Revenue(context.Context, uuid.UUID, string) (*services.RevenueSummary, error) {
	return s.summary, s.revenueErr
}

type stubAdminUserReader struct {
	user *models.User
}

func (s *stubAdminUserReader) GetByID(context.Context, uuid.UUID) (*models.User, error) {
	if s.user == nil {
		return nil, pgx.ErrNoRows
	}
	return s.user, nil
}

type stubAdminCoachReader struct {
	coach *models.Coach
}

func (s *stubAdminCoachReader) GetByUserID(context.Context, uuid.UUID) (*models.Coach, error) {
	if s.coach == nil {
		return nil, pgx.ErrNoRows
	}
	return s.coach, nil
}

type stubAdminCourseStore struct {
	course         *models.Course
	createInput    *repository.CreateCourseInput
	updateAffected int64
	overviews      []models.CoachCourseOverview
	detail         *models.CourseDetail
}

func (s *stubAdminCourseStore) Create(_ context.Context, input repository.CreateCourseInput) (*models.Course, error) {
	s.createInput = &input
	return &models.Course{
		ID:              uuid.New(),
		UserID:          input.UserID,
		SkillID:         input.SkillID,
		Name:            input.Name,
		Description:     input.Description,
		StartAt:         input.StartAt,
		EndAt:           input.EndAt,
		MaxParticipants: input.MaxParticipants,
		MeetingURL:      input.MeetingURL,
	}, nil
}

func (s *stubAdminCourseStore) GetByID(context.Context, uuid.UUID) (*models.Course, error) {
	if s.course == nil {
		return nil, pgx.ErrNoRows
	}
	return s.course, nil
}

func (s *stubAdminCourseStore) Update(context.Context, uuid.UUID, repository.UpdateCourseInput) (int64, error) {
	return s.updateAffected, nil
}

func (s *stubAdminCourseStore) ListOverviewByCoachUserID(context.Context, uuid.UUID) ([]models.CoachCourseOverview, error) {
	return s.overviews, nil
}

func (s *stubAdminCourseStore) GetDetail(context.Context, uuid.UUID) (*models.CourseDetail, error) {
	if s.detail == nil {
		return nil, pgx.ErrNoRows
	}
	return s.detail, nil
}

func newAdminApp(handler *AdminHandler, user *models.User) *fiber.App {
	app := fiber.New()
	app.Use(injectUser(user))
	group := app.Group("/api/admin/coaches")
	group.Post("/courses", handler.CreateCourse)
	group.Get("/courses", handler.GetOwnCourses)
	group.Put("/courses/:courseId", handler.UpdateCourse)
	group.Get("/courses/:courseId", handler.GetOwnCourseDetail)
	group.Get("/revenue", handler.GetRevenue)
	group.Get("/", handler.GetProfile)
	group.Put("/", handler.UpdateProfile)
	group.Post("/:userId", handler.PromoteCoach)
	return app
}

func validCourseBody(userID uuid.UUID) fiber.Map {
	return fiber.Map{
		"user_id":          userID.String(),
		"skill_id":         uuid.NewString(),
		"name":             "瑜伽入門",
		"description":      "基礎課程",
		"start_at":         "2026-01-05 10:00:00",
		"end_at":           "2026-01-05 11:00:00",
		"max_participants": 10,
		"meeting_url":      "https://meet.example.com/yoga",
	}
}

func TestPromoteCoachValidatesBody(t *testing.T) {
	handler := NewAdminHandler(&stubCoachAdminService{}, &stubAdminUserReader{}, &stubAdminCoachReader{}, &stubAdminCourseStore{})
	app := newAdminApp(handler, &models.User{ID: uuid.New()})

	for _, body := range []fiber.Map{
		{"description": "十年重訓經驗"},
		{"experience_years": -1, "description": "十年重訓經驗"},
		{"experience_years": 5, "description": "十年重訓經驗", "profile_image_url": "http://insecure.example.com/a.png"},
	} {
		status, resp := doJSON(t, app, http.MethodPost, "/api/admin/coaches/"+uuid.NewString(), body)
		if status != fiber.StatusBadRequest {
			t.Fatalf("body %v: expected 400, got %d", body, status)
		}
		if resp.Message != "欄位未填寫正確" {
			t.Fatalf("body %v: unexpected message %q", body, resp.Message)
		}
	}
}

func TestPromoteCoachMapsServiceErrors(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{services.ErrUserNotFound, fiber.StatusBadRequest, "使用者不存在"},
		{services.ErrAlreadyCoach, fiber.StatusConflict, "使用者已經是教練"},
	}
	for _, tc := range cases {
		handler := NewAdminHandler(&stubCoachAdminService{promoteErr: tc.err}, &stubAdminUserReader{}, &stubAdminCoachReader{}, &stubAdminCourseStore{})
		app := newAdminApp(handler, &models.User{ID: uuid.New()})

		status, resp := doJSON(t, app, http.MethodPost, "/api/admin/coaches/"+uuid.NewString(), fiber.Map{
			"experience_years": 5,
			"description":      "十年重訓經驗",
		})
		if status != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, status)
		}
		if resp.Message != tc.message {
			t.Fatalf("%v: unexpected message %q", tc.err, resp.Message)
		}
	}
}

func TestPromoteCoachReturnsUserAndCoach(t *testing.T) {
	handler := NewAdminHandler(&stubCoachAdminService{}, &stubAdminUserReader{}, &stubAdminCoachReader{}, &stubAdminCourseStore{})
	app := newAdminApp(handler, &models.User{ID: uuid.New()})

	status, resp := doJSON(t, app, http.MethodPost, "/api/admin/coaches/"+uuid.NewString(), fiber.Map{
		"experience_years":  5,
		"description":       "十年重訓經驗",
		"profile_image_url": "https://cdn.example.com/coach.png",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}

	var data struct {
		User struct {
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"user"`
		Coach models.Coach `json:"coach"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.User.Role != models.RoleCoach {
		t.Fatalf("expected role %q, got %q", models.RoleCoach, data.User.Role)
	}
	if data.Coach.ExperienceYears != 5 {
		t.Fatalf("unexpected coach %+v", data.Coach)
	}
}

func TestCreateCourseRejectsNonCoachOwner(t *testing.T) {
	userID := uuid.New()
	handler := NewAdminHandler(
		&stubCoachAdminService{},
		&stubAdminUserReader{user: &models.User{ID: userID, Role: models.RoleUser}},
		&stubAdminCoachReader{},
		&stubAdminCourseStore{},
	)
	app := newAdminApp(handler, &models.User{ID: userID, Role: models.RoleCoach})

	status, resp := doJSON(t, app, http.MethodPost, "/api/admin/coaches/courses", validCourseBody(userID))
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if resp.Message != "使用者尚未成為教練" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestCreateCourseParsesTimeRange(t *testing.T) {
	userID := uuid.New()
	store := &stubAdminCourseStore{}
	handler := NewAdminHandler(
		&stubCoachAdminService{},
		&stubAdminUserReader{user: &models.User{ID: userID, Role: models.RoleCoach}},
		&stubAdminCoachReader{},
		store,
	)
	app := newAdminApp(handler, &models.User{ID: userID, Role: models.RoleCoach})

	status, resp := doJSON(t, app, http.MethodPost, "/api/admin/coaches/courses", validCourseBody(userID))
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, resp.Message)
	}
	if store.createInput == nil {
		t.Fatalf("expected course insert")
	}
	want := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	if !store.createInput.StartAt.Equal(want) {
		t.Fatalf("expected start %v, got %v", want, store.createInput.StartAt)
	}
	if store.createInput.MaxParticipants != 10 {
		t.Fatalf("unexpected input %+v", store.createInput)
	}
}

func TestUpdateCourseRejectsUnknownCourse(t *testing.T) {
	userID := uuid.New()
	handler := NewAdminHandler(&stubCoachAdminService{}, &stubAdminUserReader{}, &stubAdminCoachReader{}, &stubAdminCourseStore{})
	app := newAdminApp(handler, &models.User{ID: userID, Role: models.RoleCoach})

	body := validCourseBody(userID)
	status, resp := doJSON(t, app, http.MethodPut, "/api/admin/coaches/courses/"+uuid.NewString(), body)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if resp.Message != "課程不存在" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestUpdateCourseReportsNoOpUpdate(t *testing.T) {
	userID := uuid.New()
	store := &stubAdminCourseStore{course: &models.Course{ID: uuid.New()}, updateAffected: 0}
	handler := NewAdminHandler(&stubCoachAdminService{}, &stubAdminUserReader{}, &stubAdminCoachReader{}, store)
	app := newAdminApp(handler, &models.User{ID: userID, Role: models.RoleCoach})

	status, resp := doJSON(t, app, http.MethodPut, "/api/admin/coaches/courses/"+store.course.ID.String(), validCourseBody(userID))
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if resp.Message != "更新課程失敗" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestGetOwnCoursesDerivesStatus(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	store := &stubAdminCourseStore{overviews: []models.CoachCourseOverview{
		{ID: uuid.New(), Name: "瑜伽入門", StartAt: now.Add(-time.Hour), EndAt: now.Add(time.Hour), MaxParticipants: 10, Participants: 4},
	}}
	handler := NewAdminHandler(&stubCoachAdminService{}, &stubAdminUserReader{}, &stubAdminCoachReader{}, store)
	app := newAdminApp(handler, &models.User{ID: userID, Role: models.RoleCoach})

	status, resp := doJSON(t, app, http.MethodGet, "/api/admin/coaches/courses", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	var courses []struct {
		Name         string `json:"name"`
		Status       string `json:"status"`
		Participants int    `json:"participants"`
	}
	if err := json.Unmarshal(resp.Data, &courses); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("expected one course, got %d", len(courses))
	}
	if courses[0].Status != "進行中" {
		t.Fatalf("unexpected status %q", courses[0].Status)
	}
	if courses[0].Participants != 4 {
		t.Fatalf("unexpected participants %d", courses[0].Participants)
	}
}

func TestGetOwnCourseDetailRequiresCoachRow(t *testing.T) {
	handler := NewAdminHandler(&stubCoachAdminService{}, &stubAdminUserReader{}, &stubAdminCoachReader{}, &stubAdminCourseStore{})
	app := newAdminApp(handler, &models.User{ID: uuid.New(), Role: models.RoleCoach})

	status, resp := doJSON(t, app, http.MethodGet, "/api/admin/coaches/courses/"+uuid.NewString(), nil)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if resp.Message != "找不到教練" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestGetOwnCourseDetailReturnsRow(t *testing.T) {
	userID := uuid.New()
	detail := &models.CourseDetail{ID: uuid.New(), SkillName: "瑜伽", Name: "瑜伽入門"}
	handler := NewAdminHandler(
		&stubCoachAdminService{},
		&stubAdminUserReader{},
		&stubAdminCoachReader{coach: &models.Coach{ID: uuid.New(), UserID: userID}},
		&stubAdminCourseStore{detail: detail},
	)
	app := newAdminApp(handler, &models.User{ID: userID, Role: models.RoleCoach})

	status, resp := doJSON(t, app, http.MethodGet, "/api/admin/coaches/courses/"+detail.ID.String(), nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	var decoded models.CourseDetail
	if err := json.Unmarshal(resp.Data, &decoded); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if decoded.ID != detail.ID || decoded.SkillName != "瑜伽" {
		t.Fatalf("unexpected detail %+v", decoded)
	}
}

func TestUpdateCoachProfileValidatesSkillIDs(t *testing.T) {
	handler := NewAdminHandler(&stubCoachAdminService{}, &stubAdminUserReader{}, &stubAdminCoachReader{}, &stubAdminCourseStore{})
	app := newAdminApp(handler, &models.User{ID: uuid.New(), Role: models.RoleCoach})

	status, resp := doJSON(t, app, http.MethodPut, "/api/admin/coaches/", fiber.Map{
		"experience_years":  5,
		"description":       "十年重訓經驗",
		"profile_image_url": "https://cdn.example.com/coach.png",
		"skill_ids":         []string{"not-a-uuid"},
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if resp.Message != "欄位未填寫正確" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestUpdateCoachProfileReplacesSkills(t *testing.T) {
	skillID := uuid.New()
	handler := NewAdminHandler(&stubCoachAdminService{}, &stubAdminUserReader{}, &stubAdminCoachReader{}, &stubAdminCourseStore{})
	app := newAdminApp(handler, &models.User{ID: uuid.New(), Role: models.RoleCoach})

	status, resp := doJSON(t, app, http.MethodPut, "/api/admin/coaches/", fiber.Map{
		"experience_years":  5,
		"description":       "十年重訓經驗",
		"profile_image_url": "https://cdn.example.com/coach.png",
		"skill_ids":         []string{skillID.String()},
	})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	var profile services.CoachProfile
	if err := json.Unmarshal(resp.Data, &profile); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(profile.SkillIDs) != 1 || profile.SkillIDs[0] != skillID {
		t.Fatalf("unexpected skill ids %v", profile.SkillIDs)
	}
}

func TestGetRevenueRejectsUnknownMonth(t *testing.T) {
	handler := NewAdminHandler(&stubCoachAdminService{revenueErr: services.ErrInvalidMonth}, &stubAdminUserReader{}, &stubAdminCoachReader{}, &stubAdminCourseStore{})
	app := newAdminApp(handler, &models.User{ID: uuid.New(), Role: models.RoleCoach})

	status, resp := doJSON(t, app, http.MethodGet, "/api/admin/coaches/revenue?month=smarch", nil)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if resp.Message != "欄位未填寫正確" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestGetRevenueWrapsSummary(t *testing.T) {
	handler := NewAdminHandler(&stubCoachAdminService{
		summary: &services.RevenueSummary{Revenue: 1666, Participants: 3, CourseCount: 5},
	}, &stubAdminUserReader{}, &stubAdminCoachReader{}, &stubAdminCourseStore{})
	app := newAdminApp(handler, &models.User{ID: uuid.New(), Role: models.RoleCoach})

	status, resp := doJSON(t, app, http.MethodGet, "/api/admin/coaches/revenue?month=july", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	var data struct {
		Total services.RevenueSummary `json:"total"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Total.Revenue != 1666 || data.Total.Participants != 3 || data.Total.CourseCount != 5 {
		t.Fatalf("unexpected summary %+v", data.Total)
	}
}

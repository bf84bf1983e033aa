package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/config"
	"github.com/ArvinYang1925/fitness-booking-backend/internal/handlers"
	"github.com/ArvinYang1925/fitness-booking-backend/internal/middleware"
	"github.com/ArvinYang1925/fitness-booking-backend/internal/repository"
	"github.com/ArvinYang1925/fitness-booking-backend/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	coachRepo := repository.NewCoachRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	creditPackageRepo := repository.NewCreditPackageRepository(db)
	creditPurchaseRepo := repository.NewCreditPurchaseRepository(db)
	bookingRepo := repository.NewCourseBookingRepository(db)

	bookingService := services.NewBookingService(db)
	coachService := services.NewCoachService(db, userRepo, coachRepo, courseRepo, bookingRepo, creditPackageRepo)

	userHandler := handlers.NewUserHandler(userRepo, creditPurchaseRepo, bookingRepo, cfg.JWTSecret, cfg.JWTExpiresIn)
	skillHandler := handlers.NewSkillHandler(skillRepo)
	creditPackageHandler := handlers.NewCreditPackageHandler(creditPackageRepo, creditPurchaseRepo)
	coachHandler := handlers.NewCoachHandler(coachRepo, userRepo, courseRepo)
	courseHandler := handlers.NewCourseHandler(courseRepo, bookingService)
	adminHandler := handlers.NewAdminHandler(coachService, userRepo, coachRepo, courseRepo)

	auth := middleware.AuthRequired(cfg.JWTSecret, userRepo)
	coachOnly := middleware.CoachRequired()

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/signup", userHandler.Signup)
	users.Post("/login", userHandler.Login)
	users.Get("/profile", auth, userHandler.GetProfile)
	users.Put("/profile", auth, userHandler.UpdateProfile)
	users.Put("/password", auth, userHandler.UpdatePassword)
	users.Get("/credit-package", auth, userHandler.GetCreditPurchases)
	users.Get("/courses", auth, userHandler.GetCourseBookings)

	creditPackages := api.Group("/credit-package")
	creditPackages.Get("/", creditPackageHandler.List)
	creditPackages.Post("/", creditPackageHandler.Create)
	creditPackages.Post("/:creditPackageId", auth, creditPackageHandler.Purchase)
	creditPackages.Delete("/:creditPackageId", creditPackageHandler.Delete)

	coaches := api.Group("/coaches")
	coaches.Get("/skill", skillHandler.List)
	coaches.Post("/skill", skillHandler.Create)
	coaches.Delete("/skill/:skillId", skillHandler.Delete)
	coaches.Get("/", coachHandler.List)
	coaches.Get("/:coachId", coachHandler.GetDetail)
	coaches.Get("/:coachId/courses", coachHandler.GetCourses)

	courses := api.Group("/courses")
	courses.Get("/", courseHandler.List)
	courses.Post("/:courseId", auth, courseHandler.Book)
	courses.Delete("/:courseId", auth, courseHandler.Cancel)

	admin := api.Group("/admin/coaches")
	admin.Post("/courses", auth, coachOnly, adminHandler.CreateCourse)
	admin.Get("/courses", auth, coachOnly, adminHandler.GetOwnCourses)
	admin.Put("/courses/:courseId", auth, coachOnly, adminHandler.UpdateCourse)
	admin.Get("/courses/:courseId", auth, adminHandler.GetOwnCourseDetail)
	admin.Get("/revenue", auth, coachOnly, adminHandler.GetRevenue)
	admin.Get("/", auth, coachOnly, adminHandler.GetProfile)
	admin.Put("/", auth, coachOnly, adminHandler.UpdateProfile)
	admin.Post("/:userId", adminHandler.PromoteCoach)
}

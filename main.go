// File: clinicbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinicbook/config"
	"clinicbook/cron"
	"clinicbook/database"
	appointmentRepoPkg "clinicbook/database/repository/appointment"
	doctorRepoPkg "clinicbook/database/repository/doctor"
	reviewRepoPkg "clinicbook/database/repository/review"
	userRepoPkg "clinicbook/database/repository/user"
	windowRepoPkg "clinicbook/database/repository/window"
	"clinicbook/handlers"
	"clinicbook/middleware"
	"clinicbook/routes"
	"clinicbook/services/availability"
	"clinicbook/services/directory"
	"clinicbook/services/review"
	"clinicbook/services/scheduling"
	"clinicbook/services/tasks"
	"clinicbook/services/user"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	utils.InitLockClient()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	users := userRepoPkg.NewMongoUserRepo()
	doctors := doctorRepoPkg.NewMongoDoctorRepo()
	windows := windowRepoPkg.NewMongoWindowRepo()
	appointments := appointmentRepoPkg.NewMongoAppointmentRepo()
	reviews := reviewRepoPkg.NewMongoReviewRepo()

	// booking coordination.
	locker := utils.NewRedisLocker(
		utils.GetLockClient(),
		time.Duration(config.AppConfig.BookingLockTTLMs)*time.Millisecond,
		time.Duration(config.AppConfig.BookingLockWaitMs)*time.Millisecond,
	)
	queueOpt := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
	scheduler := tasks.NewScheduler(queueOpt)
	defer scheduler.Close()

	// services.
	engine := scheduling.NewEngine(
		appointments, windows, locker, scheduler,
		time.Duration(config.AppConfig.NoShowGraceMin)*time.Minute,
	)
	userSvc := user.NewService(users, doctors, windows, appointments, utils.GetAuthCacheClient())
	availabilitySvc := availability.NewService(windows, doctors, appointments)
	reviewSvc := review.NewService(reviews, doctors, utils.GetCacheClient())
	directorySvc := directory.NewService(doctors, users, reviews)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo:   users,
		DoctorRepo: doctors,

		Register:      handlers.RegisterHandler(userSvc),
		Login:         handlers.LoginHandler(userSvc),
		Logout:        handlers.LogoutHandler(userSvc),
		Me:            handlers.MeHandler(userSvc),
		UpdateProfile: handlers.UpdateProfileHandler(userSvc),

		ListDoctors:   handlers.ListDoctorsHandler(directorySvc),
		GetDoctor:     handlers.GetDoctorHandler(directorySvc),
		DoctorReviews: handlers.DoctorReviewsHandler(reviewSvc),
		DoctorStats:   handlers.DoctorStatsHandler(reviewSvc),
		RemoveDoctor:  handlers.RemoveDoctorHandler(userSvc),

		AddWindow:    handlers.AddWindowHandler(availabilitySvc),
		UpdateWindow: handlers.UpdateWindowHandler(availabilitySvc),
		DeleteWindow: handlers.DeleteWindowHandler(availabilitySvc),
		ListWindows:  handlers.ListWindowsHandler(availabilitySvc),
		Availability: handlers.AvailabilityHandler(availabilitySvc),

		BookAppointment:     handlers.BookAppointmentHandler(engine),
		GetAppointment:      handlers.GetAppointmentHandler(engine),
		ListAppointments:    handlers.ListAppointmentsHandler(engine),
		ConfirmAppointment:  handlers.ConfirmAppointmentHandler(engine),
		CancelAppointment:   handlers.CancelAppointmentHandler(engine),
		CompleteAppointment: handlers.CompleteAppointmentHandler(engine),
		NoShowAppointment:   handlers.NoShowAppointmentHandler(engine),

		SubmitReview:  handlers.SubmitReviewHandler(reviewSvc),
		ApproveReview: handlers.ApproveReviewHandler(reviewSvc),
		DeleteReview:  handlers.DeleteReviewHandler(reviewSvc),
		ListReviews:   handlers.ListReviewsHandler(reviewSvc),

		Health: handlers.HealthHandler(),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background no-show sweeps and external service health checks.
	cron.InitNoShowWorker(engine)
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient(), utils.GetLockClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

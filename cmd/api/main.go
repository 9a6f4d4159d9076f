package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/events"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	approvalService "github.com/cmlabs-hris/attendance-engine-go/internal/service/approval"
	authService "github.com/cmlabs-hris/attendance-engine-go/internal/service/auth"
	creditHourService "github.com/cmlabs-hris/attendance-engine-go/internal/service/credithour"
	limitService "github.com/cmlabs-hris/attendance-engine-go/internal/service/limit"
	notificationService "github.com/cmlabs-hris/attendance-engine-go/internal/service/notification"
	overtimeService "github.com/cmlabs-hris/attendance-engine-go/internal/service/overtime"
	preApprovalService "github.com/cmlabs-hris/attendance-engine-go/internal/service/preapproval"
	shiftCalendarService "github.com/cmlabs-hris/attendance-engine-go/internal/service/shiftcalendar"
	timesheetService "github.com/cmlabs-hris/attendance-engine-go/internal/service/timesheet"
	travelService "github.com/cmlabs-hris/attendance-engine-go/internal/service/travel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	orgRepo := postgresql.NewOrganizationRepository(db)
	supervisorRepo := postgresql.NewSupervisorRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	timesheetRepo := postgresql.NewTimeSheetRepository(db)
	overtimeRepo := postgresql.NewOvertimeRepository(db)
	creditHourRepo := postgresql.NewCreditHourRepository(db)
	preApprovalRepo := postgresql.NewPreApprovalRepository(db)
	travelRepo := postgresql.NewTravelRepository(db)
	leaveAccountRepo := postgresql.NewLeaveAccountRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	jwtRepo := postgresql.NewJWTRepository(db)

	jwtSvc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	hub := sse.NewHub()
	notifier := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{})

	bus := events.NewBus()
	workflow := approvalService.NewEngine(supervisorRepo)
	limits := limitService.NewService(orgRepo, cfg.Attendance.WeekStartDay)
	calendar := shiftCalendarService.NewService(shiftRepo, orgRepo, cfg.Attendance.OffdayPunchoutWait)

	timesheetSvc := timesheetService.NewService(db, timesheetRepo, shiftRepo, supervisorRepo, calendar, bus, cfg.Attendance.UnpaidBreakCategories)
	overtimeSvc := overtimeService.NewService(db, overtimeRepo, timesheetRepo, shiftRepo, userRepo, overtimeService.NewEngine(), workflow, notifier)
	creditHourSvc := creditHourService.NewService(db, creditHourRepo, timesheetRepo, shiftRepo, overtimeRepo, leaveAccountRepo, userRepo, workflow, limits, notifier)
	preApprovalSvc := preApprovalService.NewService(db, preApprovalRepo, overtimeRepo, timesheetRepo, shiftRepo, userRepo, overtimeService.NewEngine(), workflow, limits, notifier, cfg.Attendance.RequirePreApprovalConfirmation)
	travelSvc := travelService.NewService(db, travelRepo, userRepo, calendar, timesheetSvc, creditHourSvc, workflow, notifier)
	authSvc := authService.NewAuthService(db, userRepo, jwtSvc, jwtRepo)

	// Timesheet corrections ripple into earned overtime and granted
	// credit; both services re-derive their numbers on the event.
	bus.Subscribe("timesheet.corrected", overtimeSvc.HandleTimesheetCorrected)
	bus.Subscribe("timesheet.corrected", creditHourSvc.HandleTimesheetCorrected)

	scheduler := cron.NewScheduler()
	cron.NewEngineJobs(userRepo, timesheetSvc, overtimeSvc, creditHourSvc, preApprovalSvc, travelSvc).RegisterJobs(scheduler)
	scheduler.Start()

	router := appHTTP.NewRouter(jwtSvc, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(jwtSvc, authSvc),
		TimeSheet:    appHTTP.NewTimeSheetHandler(timesheetSvc),
		Overtime:     appHTTP.NewOvertimeHandler(overtimeSvc, userRepo),
		CreditHour:   appHTTP.NewCreditHourHandler(creditHourSvc),
		PreApproval:  appHTTP.NewPreApprovalHandler(preApprovalSvc),
		Travel:       appHTTP.NewTravelHandler(travelSvc),
		Notification: appHTTP.NewNotificationHandler(notifier, jwtSvc),
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	scheduler.Stop()
	notifier.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Println("Shutdown error:", err)
	}
	db.Close()
}

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sowaboubacar/bearh-sub003/internal/config"
	appHTTP "github.com/sowaboubacar/bearh-sub003/internal/handler/http"
	"github.com/sowaboubacar/bearh-sub003/internal/pkg/database"
	"github.com/sowaboubacar/bearh-sub003/internal/pkg/jwt"
	"github.com/sowaboubacar/bearh-sub003/internal/repository/postgresql"
	attendanceService "github.com/sowaboubacar/bearh-sub003/internal/service/attendance"
	dashboardService "github.com/sowaboubacar/bearh-sub003/internal/service/dashboard"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	// Validated by config.Load
	loc, _ := time.LoadLocation(cfg.Attendance.Timezone)

	recordRepo := postgresql.NewRecordRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	attendanceSvc := attendanceService.NewAttendanceService(recordRepo, loc, cfg.Attendance.ReferenceCheckIn)
	dashboardSvc := dashboardService.NewDashboardService(attendanceSvc)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	dashboardHandler := appHTTP.NewDashboardHandler(dashboardSvc)

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		dashboardHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}

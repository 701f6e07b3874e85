package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"memwatch/internal/config"
	"memwatch/internal/controllers"
	"memwatch/internal/middleware"
	"memwatch/internal/routes"
	"memwatch/internal/services"
)

func main() {
	configPath := flag.String("config", "", "path to config file (yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[MAIN] %v", err)
	}

	services.InitAuthService("", cfg.Auth.SecretKeyFile, time.Duration(cfg.Auth.TokenExpiryDays)*24*time.Hour)

	// Print a feed token at startup so consumers can connect without an
	// HTTP token endpoint.
	if token, err := services.GenerateToken(cfg.Report.AppName); err == nil {
		log.Printf("[MAIN] Live feed token: %s", token)
	}

	monitor := services.GetLiveMonitor()
	monitor.SetEnabled(cfg.Monitor.Enabled)
	if cfg.Monitor.Enabled {
		services.StartLiveMonitor(time.Duration(cfg.Monitor.SampleIntervalSeconds) * time.Second)
	}

	store := services.InitSnapshotStore(monitor, cfg.Capture.MaxSnapshots, cfg.Capture.AutoDeleteOldest)
	scheduler := services.InitScheduler(store, monitor.Enabled)
	scheduler.SetInterval(cfg.ScheduleInterval())

	services.InitWebSocketHub()
	controllers.ConfigureReports(services.ReportConfig{
		MinSnapshots: cfg.Report.MinSnapshots,
		AppName:      cfg.Report.AppName,
	})

	r := gin.Default()
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter()))

	routes.RegisterMonitorRoutes(r)
	routes.RegisterSnapshotRoutes(r)
	routes.RegisterReportRoutes(r)
	routes.RegisterAuthRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("[MAIN] memwatch listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("[MAIN] Server error: %v", err)
	}
}

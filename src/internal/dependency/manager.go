package dependency

import (
	"context"

	"campus-attendance-svc/src/clients"
	"campus-attendance-svc/src/internal/attendance"
	"campus-attendance-svc/src/internal/cache"
	"campus-attendance-svc/src/internal/config"
	"campus-attendance-svc/src/internal/session"
	"campus-attendance-svc/src/internal/token"

	"github.com/gin-gonic/gin"
)

type Manager struct {
	Router            *gin.Engine
	Config            *config.Configuration
	Mongodb           *clients.MongoDB
	Redis             *clients.RedisClient
	RabbitMQ          *clients.RabbitMQ
	CacheService      cache.Service
	SessionRepo       session.Repository
	SessionService    session.Service
	SessionHandler    session.Handler
	AttendanceRepo    attendance.Repository
	AttendanceService attendance.Service
	AttendanceHandler attendance.Handler
	Publisher         *clients.ActivityPublisher
}

func NewDependencyManager(router *gin.Engine,
	mongodb *clients.MongoDB,
	redisClient *clients.RedisClient,
	rabbitMQ *clients.RabbitMQ,
	cfg *config.Configuration) *Manager {
	cacheService := cache.NewCacheService(redisClient.Client, cfg)
	publisher := clients.NewActivityPublisher(cfg, rabbitMQ.Channel)

	generator := token.NewGenerator()
	sessionRepo := session.NewSessionRepository(mongodb, cfg.Database.Collections.Sessions)
	sessionService := session.NewSessionService(sessionRepo, generator, cacheService, cfg)
	sessionHandler := session.NewHandler(cfg, sessionService, publisher)

	attendanceRepo := attendance.NewAttendanceRepository(mongodb, cfg.Database.Collections.Attendance)
	attendanceService := attendance.NewAttendanceService(attendanceRepo, sessionRepo, cacheService)
	attendanceHandler := attendance.NewHandler(cfg, attendanceService, publisher)

	return &Manager{
		Router:            router,
		Config:            cfg,
		Mongodb:           mongodb,
		Redis:             redisClient,
		RabbitMQ:          rabbitMQ,
		CacheService:      cacheService,
		SessionRepo:       sessionRepo,
		SessionService:    sessionService,
		SessionHandler:    sessionHandler,
		AttendanceRepo:    attendanceRepo,
		AttendanceService: attendanceService,
		AttendanceHandler: attendanceHandler,
		Publisher:         publisher,
	}
}

// EnsureIndexes creates the unique indexes both stores depend on for
// their insert-time guarantees. Called once at startup.
func (m *Manager) EnsureIndexes(ctx context.Context) error {
	if err := m.SessionRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	return m.AttendanceRepo.EnsureIndexes(ctx)
}

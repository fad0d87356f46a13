package wire

import (
	"time"

	"courtyard/internal/api"
	"courtyard/internal/api/config"
	"courtyard/internal/api/handler"
	"courtyard/internal/job"
	"courtyard/internal/pkg/cron"
	"courtyard/internal/pkg/mongo"
	"courtyard/internal/pkg/profanity"
	"courtyard/internal/pkg/ws"
	"courtyard/internal/repository"
	"courtyard/internal/service"

	"github.com/gin-gonic/gin"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer bundles the top-level components main runs.
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	CronMgr *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongodrv.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	apartmentRepo := repository.NewApartmentRepo(db)
	adRepo := repository.NewAdRepo(db)
	chatRepo := repository.NewChatRepo(db)
	metricRepo := repository.NewMetricRepo(db)
	messageRepo := mongo.NewMessageRepo(mongoDB)

	registry := ws.NewRegistry()
	filter := profanity.NewFilter()

	emailService := service.NewEmailService()
	userService := service.NewUserService(userRepo, metricRepo, emailService)
	otpService := service.NewOtpService(userRepo)
	apartmentService := service.NewApartmentService(apartmentRepo, metricRepo)
	adService := service.NewAdService(adRepo, apartmentRepo, userRepo, metricRepo)
	chatService := service.NewChatService(chatRepo, adRepo, messageRepo, filter, registry)
	notifyService := service.NewNotifyService(
		chatRepo,
		time.Duration(cfg.Chat.PollIntervalSeconds)*time.Second,
		time.Duration(cfg.Chat.RecencyWindowSeconds)*time.Second,
	)
	metricService := service.NewMetricService(metricRepo)

	handlers := &api.HandlersGroup{
		UserHandler:      handler.NewUserHandler(userService, otpService),
		ApartmentHandler: handler.NewApartmentHandler(apartmentService),
		AdHandler:        handler.NewAdHandler(adService),
		ChatHandler:      handler.NewChatHandler(chatService),
		WsHandler:        handler.NewWsHandler(chatService),
		NotifyHandler:    handler.NewNotifyHandler(notifyService),
		MetricHandler:    handler.NewMetricHandler(metricService),
		JobHandler:       handler.NewJobHandler(adService),
		FeedHandler:      handler.NewFeedHandler(adService),
	}

	router := api.SetupRouter(handlers)
	cronMgr := cron.NewCronManager(
		job.NewAdExpiryJob(adService),
		job.NewMetricBootstrapJob(metricService),
	)

	return &ApplicationContainer{
		Router:  router,
		DB:      db,
		CronMgr: cronMgr,
	}, nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"techcatalog/config"
	"techcatalog/internal/application/usecase"
	"techcatalog/internal/domain"
	"techcatalog/internal/infrastructure/cache"
	"techcatalog/internal/infrastructure/notify"
	"techcatalog/internal/infrastructure/repository"
	"techcatalog/internal/infrastructure/security"
	"techcatalog/internal/middleware"
	"techcatalog/internal/pkg/logger"
	handlers "techcatalog/internal/transport/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer appLog.Sync()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		appLog.Fatal("DB connect failed", "err", err)
	}

	store := repository.NewPostgresStore(db)
	if err := store.Migrate(); err != nil {
		appLog.Fatal("DB migrate failed", "err", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		appLog.Fatal("Redis connect failed", "addr", cfg.RedisAddr, "err", err)
	}
	appLog.Info("connected to Redis", "addr", cfg.RedisAddr)

	techRepo := repository.NewTechRepo(store)
	statsRepo := repository.NewStatsRepo(store)

	seedCatalog(techRepo, appLog)

	catalog := usecase.NewCatalogService(
		techRepo,
		cache.NewTechCache(rdb),
		cache.NewCreateLock(rdb),
		cfg.IDProbeLimit,
	)
	proficiency := usecase.NewProficiencyService(statsRepo, techRepo)

	tokens := security.NewTokenManager(cfg.JWTSecret)
	relay := notify.NewRelaySender(cfg.RelayURL, cfg.RelayAPIKey)

	router := handlers.NewRouter(
		handlers.NewTechHandler(catalog),
		handlers.NewAdminHandler(catalog),
		handlers.NewProficiencyHandler(proficiency),
		handlers.NewRequestHandler(relay, appLog),
		middleware.AuthMiddleware(tokens),
		middleware.NewRateLimiter(rdb),
		cfg.AllowedOrigins,
	)

	appLog.Info("tech catalog running", "port", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		appLog.Fatal("Failed to run server", "err", err)
	}
}

// Наполняем каталог, если он пуст
func seedCatalog(techRepo *repository.TechRepo, appLog *logger.Logger) {
	ctx := context.Background()

	techs, err := techRepo.List(ctx)
	if err != nil || len(techs) > 0 {
		return
	}

	seed := []domain.Tech{
		{
			Name:        "Backflip",
			Description: "Standing back somersault, the gateway flip for most trickers.",
			Difficulty:  "3",
			Tags:        []string{"flip", "basics"},
			Aka:         []string{"Back Tuck"},
		},
		{
			Name:        "Butterfly Twist",
			Description: "Horizontal twist out of a butterfly kick setup.",
			Difficulty:  "6",
			Tags:        []string{"twist"},
			Aka:         []string{"B-Twist"},
		},
		{
			Name:        "Corkscrew",
			Description: "Off-axis backflip with a full twist, landed on the takeoff leg.",
			Difficulty:  "7",
			Tags:        []string{"twist", "flip"},
			Aka:         []string{"Cork"},
		},
	}
	for _, tech := range seed {
		tech.ID = usecase.GenerateID(tech.Name)
		tech.CreatedAt = time.Now().UTC()
		if err := techRepo.Create(ctx, tech); err != nil {
			appLog.Warn("seed failed", "id", tech.ID, "err", err)
		}
	}
	appLog.Info("catalog seeded", "count", len(seed))
}

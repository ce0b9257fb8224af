package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/goodseed1/Lightning-Pickleball-sub019/config"
	_ "github.com/goodseed1/Lightning-Pickleball-sub019/docs"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/approval"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/dynamo"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/notification"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/rating"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/realtime"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/team"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/user"
	"github.com/goodseed1/Lightning-Pickleball-sub019/routes"
	"gorm.io/gorm"
)

// @title Lightning Pickleball API
// @version 1.0
// @description Club match recruitment: events, applications, partner invitations, the solo lobby and host approval.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()
	db := config.DB
	ctx := context.Background()

	err := db.AutoMigrate(
		&user.User{}, &user.Role{}, &user.UserRating{}, &user.RefreshToken{},
		&notification.Notification{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	store, err := openStore(ctx, cfg, db)
	if err != nil {
		log.Fatalf("Failed to open match store: %v", err)
	}

	users := user.NewUserRepository(db)
	var ratings rating.Source = rating.NewUserSource(users)
	if cfg.Ratings.ServiceURL != "" {
		ratings = rating.NewHTTPSource(cfg.Ratings.ServiceURL, time.Duration(cfg.Ratings.TimeoutSeconds)*time.Second)
		log.Printf("Reading ratings from %s", cfg.Ratings.ServiceURL)
	}

	var broker realtime.Broker = realtime.NewLocalBroker()
	if cfg.Redis.URL != "" {
		client, err := realtime.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		broker = realtime.NewRedisBroker(client)
	}

	notifications := notification.NewNotificationRepository(db)
	engine := match.NewService(store, ratings, match.Settings{
		RetryAttempts:    cfg.Engine.RetryAttempts,
		SinglesBand:      cfg.Engine.SinglesBand,
		DoublesTolerance: cfg.Engine.DoublesTolerance,
		FanOutChunk:      cfg.Engine.FanOutChunk,
	},
		match.WithNotifier(notification.NewNotifier(notifications)),
		match.WithPublisher(broker),
		match.WithDirectory(users),
	)

	r := routes.SetupRoutes(db, cfg, routes.Services{
		Match:         engine,
		Teams:         team.NewService(engine),
		Approvals:     approval.NewService(engine),
		Notifications: notifications,
		Broker:        broker,
	})

	log.Printf("Starting server on port %s in %s mode (store: %s)\n", cfg.App.Port, cfg.App.Env, cfg.Store.Driver)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config, db *gorm.DB) (match.Repository, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		log.Println("WARNING: events and applications are kept in memory and lost on restart.")
		return match.NewMemoryRepository(), nil

	case config.StoreDynamoDB:
		client, err := dynamo.NewClient(ctx, cfg.Store.DynamoRegion, cfg.Store.DynamoEndpoint)
		if err != nil {
			return nil, err
		}
		repo := dynamo.NewRepository(client, cfg.Store.EventsTable, cfg.Store.ApplicationsTable)
		if cfg.Store.DynamoEndpoint != "" {
			if err := repo.EnsureTables(ctx); err != nil {
				return nil, err
			}
		}
		return repo, nil

	case config.StorePostgres:
		if err := db.AutoMigrate(&match.Event{}, &match.Application{}); err != nil {
			return nil, fmt.Errorf("migrate match tables: %w", err)
		}
		return match.NewGormMatchRepository(db), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

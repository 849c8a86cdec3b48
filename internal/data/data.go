package data

import (
	"fmt"

	collectionmodels "github.com/lk2023060901/exhibition-curator-backend/internal/collection/models"
	"github.com/lk2023060901/exhibition-curator-backend/internal/conf"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/database"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/logger"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/redis"
	userdata "github.com/lk2023060901/exhibition-curator-backend/internal/user/data"
	"go.uber.org/zap"
)

// Data 持有 PostgreSQL 与 Redis 连接
type Data struct {
	DB     *database.DB
	Redis  *redis.Client
	Logger *logger.Logger
}

// NewData 建立连接并执行迁移；cleanup 按相反顺序关闭
func NewData(config *conf.Config, log *logger.Logger) (*Data, func(), error) {
	db, err := database.New(&config.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init database: %w", err)
	}

	models := append([]interface{}{&userdata.UserPO{}}, collectionmodels.Models()...)
	if err := db.AutoMigrate(models...); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	redisClient, err := redis.New(&config.Redis, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to init redis: %w", err)
	}

	d := &Data{
		DB:     db,
		Redis:  redisClient,
		Logger: log,
	}

	cleanup := func() {
		log.Info("cleaning up data resources")
		if err := redisClient.Close(); err != nil {
			log.Warn("close redis failed", zap.Error(err))
		}
		if err := db.Close(); err != nil {
			log.Warn("close database failed", zap.Error(err))
		}
	}

	return d, cleanup, nil
}

package data

import (
	"context"
	"fmt"
	"time"

	"cinelove/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewReviewRepo,
	NewMetadataClient,
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongodb"
)

// Data encapsulates the review store and ranking connections. Exactly one of
// db and mongo is set.
type Data struct {
	db    *gorm.DB
	mongo *mongo.Database
	rdb   *redis.Client
	log   *log.Helper
}

// NewData opens the configured review store and an optional Redis connection.
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	l := log.NewHelper(logger)
	data := &Data{log: l}
	var closers []func()

	driver, source := DriverSQLite, "cinelove.db"
	if c.Database != nil {
		if c.Database.Driver != "" {
			driver = c.Database.Driver
		}
		if c.Database.Source != "" {
			source = c.Database.Source
		}
	}

	switch driver {
	case DriverMongo:
		if c.Mongo == nil || c.Mongo.Uri == "" {
			return nil, nil, fmt.Errorf("mongodb driver requires data.mongo.uri")
		}
		client, err := mongo.Connect(options.Client().ApplyURI(c.Mongo.Uri))
		if err != nil {
			l.Errorf("failed to connect to mongodb: %v", err)
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx, nil); err != nil {
			l.Errorf("failed to ping mongodb: %v", err)
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		data.mongo = client.Database(c.Mongo.Database)
		if err := ensureReviewIndexes(ctx, data.mongo); err != nil {
			l.Warnf("failed to create review indexes: %v", err)
		}
		l.Info("mongodb connected successfully")
		closers = append(closers, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				l.Errorf("failed to close mongodb: %v", err)
			}
		})

	case DriverPostgres, DriverSQLite:
		var dialector gorm.Dialector
		if driver == DriverPostgres {
			dialector = postgres.Open(source)
		} else {
			dialector = sqlite.Open(source)
		}
		db, err := openGorm(dialector)
		if err != nil {
			l.Errorf("failed to connect to database: %v", err)
			return nil, nil, err
		}
		data.db = db
		l.Infof("database (%s) connected successfully", driver)
		closers = append(closers, func() {
			if sqlDB, err := db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					l.Errorf("failed to close database: %v", err)
				}
			}
		})

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if c.Redis != nil && c.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:         c.Redis.Addr,
			ReadTimeout:  c.Redis.ReadTimeout.AsDuration(),
			WriteTimeout: c.Redis.WriteTimeout.AsDuration(),
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// Redis only backs the rankings; continue without it
			l.Warnf("failed to connect to redis: %v", err)
			_ = rdb.Close()
		} else {
			l.Info("redis connected successfully")
			data.rdb = rdb
		}
	}

	cleanup := func() {
		l.Info("closing data resources")
		if data.rdb != nil {
			if err := data.rdb.Close(); err != nil {
				l.Errorf("failed to close redis: %v", err)
			}
		}
		for _, closeFn := range closers {
			closeFn()
		}
	}

	return data, cleanup, nil
}

func openGorm(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Review{}); err != nil {
		return nil, fmt.Errorf("failed to migrate reviews: %w", err)
	}
	return db, nil
}

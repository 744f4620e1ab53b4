package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/connectin/backend/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const connectTimeout = 10 * time.Second

// DB holds the relational store (users, connections, notifications) and the
// document store (posts).
type DB struct {
	Postgres *gorm.DB
	Mongo    *mongo.Client
	MongoDB  *mongo.Database
}

// InitDB connects to both stores and verifies each with a ping.
func InitDB(ctx context.Context, cfg *Config) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pg, err := openPostgres(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	db := &DB{Postgres: pg}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err == nil {
		err = client.Ping(ctx, nil)
	}
	if err != nil {
		_ = db.CloseDB()
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	db.Mongo = client
	db.MongoDB = client.Database(cfg.MongoDatabase)
	logger.Info("Connected to MongoDB", "database", cfg.MongoDatabase)

	return db, nil
}

// GormConfig is shared by the server and the test store so both translate
// driver errors (unique violations) into gorm.ErrDuplicatedKey.
func GormConfig(production bool) *gorm.Config {
	logLevel := gormlogger.Info
	if production {
		logLevel = gormlogger.Error
	}
	return &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func openPostgres(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresUrl), GormConfig(cfg.IsProduction()))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.PostgresMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.PostgresMaxOpenConns / 4)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info("Connected to PostgreSQL", "max_open_conns", cfg.PostgresMaxOpenConns)
	return db, nil
}

// CloseDB closes whichever connections were opened.
func (db *DB) CloseDB() error {
	var errs []error
	if db.Postgres != nil {
		if sqlDB, err := db.Postgres.DB(); err != nil {
			errs = append(errs, err)
		} else if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close postgres: %w", err))
		}
	}
	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close mongo: %w", err))
		}
	}
	return errors.Join(errs...)
}

package model

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/openprocure/samsync/src/utils/build_info"
	"github.com/openprocure/samsync/src/utils/config"
	l "github.com/openprocure/samsync/src/utils/logger"
	"github.com/openprocure/samsync/src/utils/model/sql_migrations"
	"github.com/openprocure/samsync/src/utils/task"

	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(ctx context.Context, dbConfig *config.Database, applicationName string) (self *gorm.DB, err error) {
	log := l.NewSublogger("db")

	gormLogger := logger.New(log,
		logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s application_name=%s/samsync/%s",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.SslMode,
		applicationName,
		build_info.Version,
	)

	self, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return
	}

	db, err := self.DB()
	if err != nil {
		return
	}

	db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	db.SetConnMaxIdleTime(dbConfig.ConnMaxIdleTime)
	db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	// The database may still be starting up, give it a while
	err = task.NewRetry().
		WithContext(ctx).
		WithMaxElapsedTime(time.Minute).
		WithMaxInterval(10 * time.Second).
		WithAcceptableDuration(30 * time.Second).
		WithOnError(func(err error, isDurationAcceptable bool) error {
			if !isDurationAcceptable {
				log.WithError(err).Error("Database is still unreachable")
				return err
			}
			log.WithError(err).Warn("Failed to ping the database, retrying")
			return err
		}).
		Run(func() error {
			return ping(ctx, dbConfig, self)
		})
	if err != nil {
		return
	}

	return
}

func NewConnection(ctx context.Context, config *config.Config, applicationName string) (self *gorm.DB, err error) {
	err = Migrate(ctx, config)
	if err != nil {
		return
	}

	return Connect(ctx, &config.Database, applicationName)
}

// Applies the embedded schema. Idempotent, already applied migrations are
// skipped. This is schema creation for fresh databases, not schema evolution.
func Migrate(ctx context.Context, config *config.Config) (err error) {
	log := l.NewSublogger("db-migrate")

	migrations := &migrate.HttpFileSystemMigrationSource{
		FileSystem: http.FS(sql_migrations.FS),
	}

	self, err := Connect(ctx, &config.Database, "migration")
	if err != nil {
		return
	}

	db, err := self.DB()
	if err != nil {
		return
	}
	defer db.Close()

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return
	}

	if n > 0 {
		log.WithField("num", n).Info("Applied migrations")
	}

	return
}

// Drops every table owned by the service and recreates the schema.
// Destructive, invoked only by the reset-db command.
func ResetSchema(ctx context.Context, config *config.Config) (err error) {
	log := l.NewSublogger("db-reset")

	self, err := Connect(ctx, &config.Database, "reset")
	if err != nil {
		return
	}

	db, err := self.DB()
	if err != nil {
		return
	}
	defer db.Close()

	migrations := &migrate.HttpFileSystemMigrationSource{
		FileSystem: http.FS(sql_migrations.FS),
	}

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Down)
	if err != nil {
		return
	}
	log.WithField("num", n).Info("Dropped schema")

	n, err = migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return
	}
	log.WithField("num", n).Info("Recreated schema")

	return
}

func ping(ctx context.Context, dbConfig *config.Database, db *gorm.DB) (err error) {
	if dbConfig.PingTimeout < 0 {
		// Ping disabled
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbConfig.PingTimeout)
	defer cancel()

	return sqlDB.PingContext(dbCtx)
}

package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/doctor-scheduler/internal/config"
	"github.com/BruksfildServices01/doctor-scheduler/internal/logger"
	"github.com/BruksfildServices01/doctor-scheduler/internal/models"
)

// exclusão no nível do banco: mesmo médico, mesmo dia, faixas que se cruzam
const overlapConstraint = `
DO $$ BEGIN
    ALTER TABLE appointments ADD CONSTRAINT appointments_no_overlap
    EXCLUDE USING gist (
        doctor_id WITH =,
        appointment_date WITH =,
        int4range(start_minute, end_minute) WITH &&
    ) WHERE (status <> 'cancelled' AND NOT is_deleted);
EXCEPTION WHEN duplicate_object THEN NULL;
END $$;
`

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if !cfg.IsProduction() && cfg.LogLevel == "debug" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger: gormlogger.New(
			zap.NewStdLog(logger.L().Named("gorm")),
			gormlogger.Config{
				SlowThreshold:             500 * time.Millisecond,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Doctor{},
		&models.DoctorTimeSlot{},
		&models.Appointment{},
		&models.Rating{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	installOverlapGuard(db)
	return nil
}

// installOverlapGuard depende de start_minute/end_minute como integer,
// que é o que int4range aceita.
func installOverlapGuard(db *gorm.DB) bool {
	// sem btree_gist o lock do médico continua garantindo a regra
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		logger.L().Warn("btree_gist unavailable, skipping overlap constraint", zap.Error(err))
		return false
	}
	if err := db.Exec(overlapConstraint).Error; err != nil {
		logger.L().Warn("failed to create overlap constraint", zap.Error(err))
		return false
	}
	return true
}

// SeedAdmin cria o admin configurado quando ainda não existe.
func SeedAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return nil
	}

	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		if !existing.IsAdmin() {
			logger.L().Warn("admin seed email belongs to a non-admin user", zap.String("email", email))
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("seed admin lookup: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed admin hash: %w", err)
	}

	name := cfg.AdminName
	if name == "" {
		name = "Administrator"
	}

	admin := models.User{
		Base:         models.Base{IsActive: true},
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin create: %w", err)
	}

	logger.L().Info("admin user seeded", zap.String("email", email))
	return nil
}

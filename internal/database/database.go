package database

import (
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/GalihRensuke/GalyarderOS-sub001/internal/config"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/models"
)

// Connect opens the store named by DATABASE_URL: PostgreSQL when the URL
// carries a postgres scheme, SQLite otherwise. The handle is returned to the
// caller; nothing here holds global state.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Ritual{},
		&models.RitualStep{},
		&models.RitualCompletion{},
	)
}

package database

import (
	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.SavedExpansion{},
		&model.FavoriteStory{},
	)
	if err != nil {
		return err
	}

	// Letter browsing filters on lower(word)
	db.Exec("CREATE INDEX IF NOT EXISTS idx_expanded_words_lower_word ON expanded_words(lower(word))")

	return nil
}

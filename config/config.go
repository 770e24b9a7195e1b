package config

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the database selected by DB_DRIVER. SQLite is the default
// so the board runs with zero setup; MySQL is for a shared install.
func InitDB() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")

	switch driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			env("DB_USER", "root"),
			os.Getenv("DB_PASS"),
			env("DB_HOST", "127.0.0.1"),
			env("DB_PORT", "3306"),
			env("DB_NAME", "lo_board"),
		)
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	default:
		return gorm.Open(sqlite.Open(env("DB_PATH", "lo_board.db")), &gorm.Config{})
	}
}

// BoardConfig holds the timeline window and notification switch.
type BoardConfig struct {
	OpenHour             int
	CloseHour            int
	NotificationsEnabled bool
}

func LoadBoardConfig() BoardConfig {
	return BoardConfig{
		OpenHour:             envInt("OPEN_HOUR", 17),
		CloseHour:            envInt("CLOSE_HOUR", 23),
		NotificationsEnabled: env("NOTIFICATIONS_ENABLED", "true") != "false",
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

package services

import (
	"github.com/yeremiapane/lo-board/models"
	"github.com/yeremiapane/lo-board/utils"
	"gorm.io/gorm"
)

// seedTableNames is the shop's fixed table list; sortIndex follows list
// position.
var seedTableNames = []string{
	"イノイチ",
	"イコーナー",
	"ロイチ",
	"ロラス",
	"ドリ前",
	"VIP",
	"T1",
	"T2",
	"T3",
	"T4",
	"臨時1",
	"臨時2",
}

// SeedTablesIfNeeded provisions the table master data on first boot. If
// even one table already exists it does nothing.
func SeedTablesIfNeeded(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Table{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tables := make([]models.Table, 0, len(seedTableNames))
	for i, name := range seedTableNames {
		tables = append(tables, models.Table{Name: name, SortIndex: i})
	}

	if err := db.Create(&tables).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded %d tables", len(tables))
	return nil
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/lo-board/board"
	"github.com/yeremiapane/lo-board/models"
	"github.com/yeremiapane/lo-board/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable adds a table row to the board.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		SortIndex *int   `json:"sort_index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{Name: req.Name}
	if req.SortIndex != nil {
		table.SortIndex = *req.SortIndex
	} else {
		// Append below the current last row.
		var maxIndex *int
		tc.DB.Model(&models.Table{}).Select("MAX(sort_index)").Scan(&maxIndex)
		if maxIndex != nil {
			table.SortIndex = *maxIndex + 1
		}
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board.BroadcastTableCreate(table)
	utils.InfoLogger.Printf("New table created: %s (sort_index=%d)", table.Name, table.SortIndex)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables lists tables in board row order.
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("sort_index ASC").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID returns one table.
func (tc *TableController) GetTableByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table id"))
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, "id = ?", id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable renames or reorders a table.
func (tc *TableController) UpdateTable(c *gin.Context) {
	id, err := uuid.Parse(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table id"))
		return
	}

	var body struct {
		Name      *string `json:"name"`
		SortIndex *int    `json:"sort_index"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, "id = ?", id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if body.Name != nil {
		table.Name = *body.Name
	}
	if body.SortIndex != nil {
		table.SortIndex = *body.SortIndex
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board.BroadcastTableUpdate(table)
	utils.InfoLogger.Printf("Table %s updated (name=%s, sort_index=%d)", table.ID, table.Name, table.SortIndex)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable removes a table. Normal operation never does this; it exists
// for correcting provisioning mistakes.
func (tc *TableController) DeleteTable(c *gin.Context) {
	id, err := uuid.Parse(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table id"))
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, "id = ?", id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var inUse int64
	tc.DB.Model(&models.Reservation{}).Where("table_id = ?", id).Count(&inUse)
	if inUse > 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("table still has reservations"))
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board.BroadcastTableDelete(table.ID)
	utils.InfoLogger.Printf("Table %s deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}

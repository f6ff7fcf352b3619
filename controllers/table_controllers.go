package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-api/services"
	"github.com/yeremiapane/restaurant-api/utils"
)

const tableNotFound = "Table was not found."

type TableController struct {
	Tables *services.TableService
}

func NewTableController(tables *services.TableService) *TableController {
	return &TableController{Tables: tables}
}

type tableRequest struct {
	Capacity    int    `json:"capacity" binding:"required,gt=0"`
	Description string `json:"description" binding:"required,min=5"`
}

func (tc *TableController) bind(c *gin.Context) (services.TableInput, bool) {
	var req tableRequest
	if !bindJSON(c, &req) {
		return services.TableInput{}, false
	}
	return services.TableInput{Capacity: req.Capacity, Description: strings.TrimSpace(req.Description)}, true
}

// CreateTable adds a new table; it always starts available.
func (tc *TableController) CreateTable(c *gin.Context) {
	in, ok := tc.bind(c)
	if !ok {
		return
	}
	table, err := tc.Tables.CreateTable(c.Request.Context(), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table has been added successfully!", table)
}

func (tc *TableController) UpdateTable(c *gin.Context) {
	id, ok := paramID(c, "id", tableNotFound)
	if !ok {
		return
	}
	in, ok := tc.bind(c)
	if !ok {
		return
	}
	table, err := tc.Tables.UpdateTable(c.Request.Context(), id, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table has been updated!", table)
}

func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Tables.ListTables(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) GetTableByID(c *gin.Context) {
	id, ok := paramID(c, "id", tableNotFound)
	if !ok {
		return
	}
	table, err := tc.Tables.GetTable(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// GetTableOrders lists the in-progress orders of a table.
func (tc *TableController) GetTableOrders(c *gin.Context) {
	id, ok := paramID(c, "id", tableNotFound)
	if !ok {
		return
	}
	orders, err := tc.Tables.GetTableOrders(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table orders", orders)
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

// UpdateTableStatus -> PATCH /tables/:id/changeStatus
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	id, ok := paramID(c, "id", tableNotFound)
	if !ok {
		return
	}
	var req changeStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	table, err := tc.Tables.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table status has been updated!", table)
}

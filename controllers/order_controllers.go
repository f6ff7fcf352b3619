package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-api/services"
	"github.com/yeremiapane/restaurant-api/utils"
)

const orderNotFound = "Order was not found."

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

type createOrderRequest struct {
	TableID uint        `json:"tableId" binding:"required,gt=0"`
	Dishes  interface{} `json:"dishes"`
}

type updateOrderRequest struct {
	Dishes interface{} `json:"dishes"`
}

func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	dishIDs, err := services.ParseDishIDs(req.Dishes)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	order, err := oc.Orders.CreateOrder(c.Request.Context(), req.TableID, dishIDs)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order has been created successfully!", order)
}

// UpdateOrder replaces the dishes of an order.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := paramID(c, "id", orderNotFound)
	if !ok {
		return
	}
	var req updateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	dishIDs, err := services.ParseDishIDs(req.Dishes)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	order, err := oc.Orders.UpdateOrder(c.Request.Context(), id, dishIDs)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order has been updated!", order)
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := paramID(c, "id", orderNotFound)
	if !ok {
		return
	}
	if err := oc.Orders.DeleteOrder(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.ListOrders(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := paramID(c, "id", orderNotFound)
	if !ok {
		return
	}
	order, err := oc.Orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-api/services"
	"github.com/yeremiapane/restaurant-api/utils"
)

const ingredientNotFound = "Ingredient was not found."

type IngredientController struct {
	Catalog *services.CatalogService
}

func NewIngredientController(catalog *services.CatalogService) *IngredientController {
	return &IngredientController{Catalog: catalog}
}

type ingredientRequest struct {
	Name string `json:"name" binding:"required,min=5"`
}

func (ic *IngredientController) bind(c *gin.Context) (ingredientRequest, bool) {
	var req ingredientRequest
	if !bindJSON(c, &req) {
		return req, false
	}
	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 5 {
		utils.RespondError(c, utils.ValidationFailed(utils.FieldError{
			Field:   "name",
			Message: "name field must be at least 5 characters long",
			Value:   req.Name,
		}))
		return req, false
	}
	return req, true
}

func (ic *IngredientController) CreateIngredient(c *gin.Context) {
	req, ok := ic.bind(c)
	if !ok {
		return
	}
	ingredient, err := ic.Catalog.CreateIngredient(c.Request.Context(), req.Name)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Ingredient has been created!", ingredient)
}

func (ic *IngredientController) UpdateIngredient(c *gin.Context) {
	id, ok := paramID(c, "id", ingredientNotFound)
	if !ok {
		return
	}
	req, ok := ic.bind(c)
	if !ok {
		return
	}
	ingredient, err := ic.Catalog.UpdateIngredient(c.Request.Context(), id, req.Name)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredient has been updated!", ingredient)
}

func (ic *IngredientController) GetAllIngredients(c *gin.Context) {
	ingredients, err := ic.Catalog.ListIngredients(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of ingredients", ingredients)
}

func (ic *IngredientController) GetIngredientByID(c *gin.Context) {
	id, ok := paramID(c, "id", ingredientNotFound)
	if !ok {
		return
	}
	ingredient, err := ic.Catalog.GetIngredient(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredient detail", ingredient)
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/services"
	"github.com/yeremiapane/restaurant-api/utils"
)

const (
	dishNotFound   = "Dish was not found."
	maxImageUpload = 5 << 20
)

type DishController struct {
	Catalog *services.CatalogService
}

func NewDishController(catalog *services.CatalogService) *DishController {
	return &DishController{Catalog: catalog}
}

type dishRequest struct {
	Name             string           `json:"name" binding:"required,min=5"`
	Price            *decimal.Decimal `json:"price" binding:"required"`
	NumberOfServings int              `json:"numberOfServings" binding:"required,gt=0"`
	Category         string           `json:"category" binding:"required,oneof=starter main_course dessert beverage"`
	Image            *string          `json:"image"`
	Ingredients      []uint           `json:"ingredients"`
}

func (r dishRequest) input() services.DishInput {
	return services.DishInput{
		Name:             r.Name,
		Price:            *r.Price,
		NumberOfServings: r.NumberOfServings,
		Category:         models.DishCategory(r.Category),
		Image:            r.Image,
		IngredientIDs:    r.Ingredients,
	}
}

type ingredientChanges struct {
	New []uint `json:"new"`
	Old []uint `json:"old"`
}

type dishPatchRequest struct {
	Name             string             `json:"name" binding:"omitempty,min=5"`
	Price            *decimal.Decimal   `json:"price"`
	NumberOfServings int                `json:"numberOfServings" binding:"omitempty,gt=0"`
	Category         string             `json:"category" binding:"omitempty,oneof=starter main_course dessert beverage"`
	Image            *string            `json:"image"`
	Ingredients      *ingredientChanges `json:"ingredients"`
}

func (dc *DishController) bindDish(c *gin.Context) (dishRequest, bool) {
	var req dishRequest
	if !bindJSON(c, &req) {
		return req, false
	}
	if !validPrice(c, req.Price) {
		return req, false
	}
	return req, true
}

func validPrice(c *gin.Context, price *decimal.Decimal) bool {
	if price != nil && price.IsNegative() {
		utils.RespondError(c, utils.ValidationFailed(utils.FieldError{
			Field:   "price",
			Message: "price must not be negative",
			Value:   price.String(),
		}))
		return false
	}
	return true
}

func (dc *DishController) CreateDish(c *gin.Context) {
	req, ok := dc.bindDish(c)
	if !ok {
		return
	}
	dish, err := dc.Catalog.CreateDish(c.Request.Context(), req.input())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Dish has been created!", dish)
}

// UpdateDish replaces the whole dish, ingredient set included.
func (dc *DishController) UpdateDish(c *gin.Context) {
	id, ok := paramID(c, "id", dishNotFound)
	if !ok {
		return
	}
	req, ok := dc.bindDish(c)
	if !ok {
		return
	}
	dish, err := dc.Catalog.UpdateDish(c.Request.Context(), id, req.input())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish has been updated!", dish)
}

// PartialUpdateDish changes only the fields sent; ingredients.new are linked and ingredients.old unlinked.
func (dc *DishController) PartialUpdateDish(c *gin.Context) {
	id, ok := paramID(c, "id", dishNotFound)
	if !ok {
		return
	}
	var req dishPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	if !validPrice(c, req.Price) {
		return
	}

	patch := services.DishPatch{
		Name:             req.Name,
		Price:            req.Price,
		NumberOfServings: req.NumberOfServings,
		Category:         models.DishCategory(req.Category),
		Image:            req.Image,
	}
	if req.Ingredients != nil {
		patch.AddIngredients = req.Ingredients.New
		patch.DropIngredients = req.Ingredients.Old
	}

	dish, err := dc.Catalog.PatchDish(c.Request.Context(), id, patch)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish has been updated!", dish)
}

// UploadDishImage accepts a multipart "image" file and stores it as the dish picture.
func (dc *DishController) UploadDishImage(c *gin.Context) {
	id, ok := paramID(c, "id", dishNotFound)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageUpload)
	header, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, utils.ValidationFailed(utils.FieldError{Field: "image", Message: "No Image picked"}))
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.RespondError(c, utils.Internal(err))
		return
	}
	defer file.Close()

	dish, err := dc.Catalog.UploadDishImage(c.Request.Context(), id, header.Filename, file)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish image has been uploaded!", dish)
}

func (dc *DishController) GetAllDishes(c *gin.Context) {
	dishes, err := dc.Catalog.ListDishes(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of dishes", dishes)
}

func (dc *DishController) GetDishByID(c *gin.Context) {
	id, ok := paramID(c, "id", dishNotFound)
	if !ok {
		return
	}
	dish, err := dc.Catalog.GetDish(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish detail", dish)
}

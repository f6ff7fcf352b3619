package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/yeremiapane/restaurant-api/models"
)

func (r *Repository) CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	return translate(r.conn(ctx).Create(ingredient).Error)
}

func (r *Repository) SaveIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	return translate(r.conn(ctx).Save(ingredient).Error)
}

func (r *Repository) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.conn(ctx).First(&ingredient, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ingredient, nil
}

func (r *Repository) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	ingredients := make([]models.Ingredient, 0)
	if err := r.conn(ctx).Order("id ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// FindIngredientsByIDs resolves ids to ingredients; unknown ids are skipped.
func (r *Repository) FindIngredientsByIDs(ctx context.Context, ids []uint) ([]models.Ingredient, error) {
	ingredients := make([]models.Ingredient, 0)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.conn(ctx).Where("id IN ?", ids).Order("id ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *Repository) CreateDish(ctx context.Context, dish *models.Dish) error {
	return translate(r.conn(ctx).Create(dish).Error)
}

func (r *Repository) SaveDish(ctx context.Context, dish *models.Dish) error {
	return translate(r.conn(ctx).Save(dish).Error)
}

// GetDish loads a dish with its ingredients.
func (r *Repository) GetDish(ctx context.Context, id uint) (*models.Dish, error) {
	var dish models.Dish
	if err := r.conn(ctx).First(&dish, id).Error; err != nil {
		return nil, translate(err)
	}
	dishes := []models.Dish{dish}
	if err := r.attachIngredients(ctx, dishes); err != nil {
		return nil, err
	}
	return &dishes[0], nil
}

func (r *Repository) ListDishes(ctx context.Context) ([]models.Dish, error) {
	dishes := make([]models.Dish, 0)
	if err := r.conn(ctx).Order("id ASC").Find(&dishes).Error; err != nil {
		return nil, err
	}
	if err := r.attachIngredients(ctx, dishes); err != nil {
		return nil, err
	}
	return dishes, nil
}

// FindDishesByIDs resolves ids to dishes; unknown and repeated ids are dropped.
func (r *Repository) FindDishesByIDs(ctx context.Context, ids []uint) ([]models.Dish, error) {
	dishes := make([]models.Dish, 0)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return dishes, nil
	}
	if err := r.conn(ctx).Where("id IN ?", ids).Order("id ASC").Find(&dishes).Error; err != nil {
		return nil, err
	}
	return dishes, nil
}

// ReplaceDishIngredients swaps the whole ingredient set of a dish.
func (r *Repository) ReplaceDishIngredients(ctx context.Context, dishID uint, ingredientIDs []uint) error {
	if err := r.conn(ctx).Where("dish_id = ?", dishID).Delete(&models.DishIngredient{}).Error; err != nil {
		return err
	}
	return r.AddDishIngredients(ctx, dishID, ingredientIDs)
}

// AddDishIngredients links ingredients to a dish, ignoring links that already exist.
func (r *Repository) AddDishIngredients(ctx context.Context, dishID uint, ingredientIDs []uint) error {
	ingredientIDs = uniqueIDs(ingredientIDs)
	if len(ingredientIDs) == 0 {
		return nil
	}
	links := make([]models.DishIngredient, 0, len(ingredientIDs))
	for _, id := range ingredientIDs {
		links = append(links, models.DishIngredient{DishID: dishID, IngredientID: id})
	}
	return r.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func (r *Repository) RemoveDishIngredients(ctx context.Context, dishID uint, ingredientIDs []uint) error {
	ingredientIDs = uniqueIDs(ingredientIDs)
	if len(ingredientIDs) == 0 {
		return nil
	}
	return r.conn(ctx).
		Where("dish_id = ? AND ingredient_id IN ?", dishID, ingredientIDs).
		Delete(&models.DishIngredient{}).Error
}

type ingredientLink struct {
	DishID uint
	models.Ingredient
}

func (r *Repository) attachIngredients(ctx context.Context, dishes []models.Dish) error {
	if len(dishes) == 0 {
		return nil
	}
	dishIDs := make([]uint, 0, len(dishes))
	for _, d := range dishes {
		dishIDs = append(dishIDs, d.ID)
	}

	var rows []ingredientLink
	err := r.conn(ctx).
		Table("ingredients").
		Select("dish_ingredients.dish_id AS dish_id, ingredients.*").
		Joins("JOIN dish_ingredients ON dish_ingredients.ingredient_id = ingredients.id").
		Where("dish_ingredients.dish_id IN ?", dishIDs).
		Order("ingredients.id ASC").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	byDish := make(map[uint][]models.Ingredient, len(dishes))
	for _, row := range rows {
		byDish[row.DishID] = append(byDish[row.DishID], row.Ingredient)
	}
	for i := range dishes {
		dishes[i].Ingredients = byDish[dishes[i].ID]
		if dishes[i].Ingredients == nil {
			dishes[i].Ingredients = []models.Ingredient{}
		}
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"io"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-api/kds"
	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/repository"
	"github.com/yeremiapane/restaurant-api/utils"
)

const (
	msgDishNotFound       = "Dish was not found."
	msgIngredientNotFound = "Ingredient was not found."
)

var ErrUnsupportedImage = errors.New("unsupported image type")

type DishInput struct {
	Name             string
	Price            decimal.Decimal
	NumberOfServings int
	Category         models.DishCategory
	Image            *string
	IngredientIDs    []uint
}

// DishPatch carries the fields of a partial dish update; nil and empty values are left untouched.
type DishPatch struct {
	Name             string
	Price            *decimal.Decimal
	NumberOfServings int
	Category         models.DishCategory
	Image            *string
	AddIngredients   []uint
	DropIngredients  []uint
}

// CatalogService manages dishes, ingredients and the links between them.
type CatalogService struct {
	repo      *repository.Repository
	images    ImageStore
	publisher kds.Publisher
	log       logrus.FieldLogger
}

func NewCatalogService(repo *repository.Repository, images ImageStore, publisher kds.Publisher, log logrus.FieldLogger) *CatalogService {
	return &CatalogService{repo: repo, images: images, publisher: publisher, log: log}
}

func (s *CatalogService) CreateIngredient(ctx context.Context, name string) (*models.Ingredient, error) {
	ingredient := &models.Ingredient{Name: name}
	if err := s.repo.CreateIngredient(ctx, ingredient); err != nil {
		return nil, utils.Internal(err)
	}
	return ingredient, nil
}

func (s *CatalogService) UpdateIngredient(ctx context.Context, id uint, name string) (*models.Ingredient, error) {
	ingredient, err := s.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	ingredient.Name = name
	if err := s.repo.SaveIngredient(ctx, ingredient); err != nil {
		return nil, utils.Internal(err)
	}
	return ingredient, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	ingredient, err := s.repo.GetIngredient(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, msgIngredientNotFound)
	}
	return ingredient, nil
}

func (s *CatalogService) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	ingredients, err := s.repo.ListIngredients(ctx)
	if err != nil {
		return nil, utils.Internal(err)
	}
	return ingredients, nil
}

// CreateDish stores a dish and links the ingredients that exist.
func (s *CatalogService) CreateDish(ctx context.Context, in DishInput) (*models.Dish, error) {
	var dish *models.Dish
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		created := &models.Dish{
			Name:             in.Name,
			Price:            in.Price,
			NumberOfServings: in.NumberOfServings,
			Category:         in.Category,
			Image:            in.Image,
		}
		if err := tx.CreateDish(ctx, created); err != nil {
			return err
		}
		if err := linkIngredients(ctx, tx, created.ID, in.IngredientIDs, true); err != nil {
			return err
		}
		var err error
		dish, err = tx.GetDish(ctx, created.ID)
		return err
	})
	if err != nil {
		return nil, serviceError(err)
	}

	s.log.WithFields(logrus.Fields{"dish_id": dish.ID, "price": utils.FormatMoney(dish.Price)}).Info("dish created")
	return dish, nil
}

// UpdateDish replaces every field of a dish, its ingredient set included.
func (s *CatalogService) UpdateDish(ctx context.Context, id uint, in DishInput) (*models.Dish, error) {
	return s.mutateDish(ctx, id, func(tx *repository.Repository, dish *models.Dish) error {
		dish.Name = in.Name
		dish.Price = in.Price
		dish.NumberOfServings = in.NumberOfServings
		dish.Category = in.Category
		dish.Image = in.Image
		if err := tx.SaveDish(ctx, dish); err != nil {
			return err
		}
		return linkIngredients(ctx, tx, dish.ID, in.IngredientIDs, true)
	})
}

// PatchDish changes only the fields present in p, then adds and removes ingredient links.
func (s *CatalogService) PatchDish(ctx context.Context, id uint, p DishPatch) (*models.Dish, error) {
	return s.mutateDish(ctx, id, func(tx *repository.Repository, dish *models.Dish) error {
		if p.Name != "" {
			dish.Name = p.Name
		}
		if p.Price != nil {
			dish.Price = *p.Price
		}
		if p.NumberOfServings > 0 {
			dish.NumberOfServings = p.NumberOfServings
		}
		if p.Category != "" {
			dish.Category = p.Category
		}
		if p.Image != nil && *p.Image != "" {
			dish.Image = p.Image
		}
		if err := tx.SaveDish(ctx, dish); err != nil {
			return err
		}
		if err := linkIngredients(ctx, tx, dish.ID, p.AddIngredients, false); err != nil {
			return err
		}
		return tx.RemoveDishIngredients(ctx, dish.ID, p.DropIngredients)
	})
}

// UploadDishImage stores the image and points the dish at its URL.
func (s *CatalogService) UploadDishImage(ctx context.Context, id uint, filename string, r io.Reader) (*models.Dish, error) {
	if _, err := s.GetDish(ctx, id); err != nil {
		return nil, err
	}

	url, err := s.images.Save(ctx, filename, r)
	if err != nil {
		if errors.Is(err, ErrUnsupportedImage) {
			return nil, utils.ValidationFailed(utils.FieldError{Field: "image", Message: "Image must be a jpg, jpeg, png, gif or webp file", Value: filename})
		}
		return nil, utils.Internal(err)
	}

	dish, err := s.mutateDish(ctx, id, func(tx *repository.Repository, dish *models.Dish) error {
		dish.Image = &url
		return tx.SaveDish(ctx, dish)
	})
	if err != nil {
		if derr := s.images.Delete(context.WithoutCancel(ctx), url); derr != nil {
			s.log.WithError(derr).WithField("url", url).Warn("remove orphaned dish image")
		}
		return nil, err
	}
	return dish, nil
}

func (s *CatalogService) GetDish(ctx context.Context, id uint) (*models.Dish, error) {
	dish, err := s.repo.GetDish(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, msgDishNotFound)
	}
	return dish, nil
}

func (s *CatalogService) ListDishes(ctx context.Context) ([]models.Dish, error) {
	dishes, err := s.repo.ListDishes(ctx)
	if err != nil {
		return nil, utils.Internal(err)
	}
	return dishes, nil
}

// mutateDish loads the dish, applies fn and, when the price moved, refreshes the
// subtotal of every order holding the dish, all in one transaction.
func (s *CatalogService) mutateDish(ctx context.Context, id uint, fn func(tx *repository.Repository, dish *models.Dish) error) (*models.Dish, error) {
	var (
		dish     *models.Dish
		affected []uint
	)
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		current, err := tx.GetDish(ctx, id)
		if err != nil {
			return notFoundOr(err, msgDishNotFound)
		}
		oldPrice := current.Price

		if err := fn(tx, current); err != nil {
			return err
		}

		if !current.Price.Equal(oldPrice) {
			affected, err = tx.OrderIDsWithDish(ctx, id)
			if err != nil {
				return err
			}
			if err := recomputeSubtotals(ctx, tx, affected); err != nil {
				return err
			}
		}

		dish, err = tx.GetDish(ctx, id)
		return err
	})
	if err != nil {
		return nil, serviceError(err)
	}

	s.log.WithFields(logrus.Fields{"dish_id": dish.ID, "orders_repriced": len(affected)}).Info("dish updated")
	s.publisher.Publish(ctx, kds.Message{Event: kds.EventDishUpdated, Data: dish})
	return dish, nil
}

// linkIngredients links the existing ingredients among ids to a dish; replace drops the previous set first.
func linkIngredients(ctx context.Context, tx *repository.Repository, dishID uint, ids []uint, replace bool) error {
	found, err := tx.FindIngredientsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	resolved := make([]uint, 0, len(found))
	for _, ing := range found {
		resolved = append(resolved, ing.ID)
	}
	if replace {
		return tx.ReplaceDishIngredients(ctx, dishID, resolved)
	}
	return tx.AddDishIngredients(ctx, dishID, resolved)
}

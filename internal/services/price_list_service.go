package services

import (
	"github.com/shopspring/decimal"

	"eltetu/internal/models"
	"eltetu/internal/repositories"
)

// PriceListService handles business logic related to price lists.
type PriceListService struct {
	repo repositories.PriceListRepository
}

// NewPriceListService creates a new PriceListService.
func NewPriceListService(repo repositories.PriceListRepository) *PriceListService {
	return &PriceListService{
		repo: repo,
	}
}

// GetAllPriceLists retrieves all price lists.
func (s *PriceListService) GetAllPriceLists() ([]models.PriceList, error) {
	return s.repo.GetAll()
}

// GetPriceListByID retrieves a single price list by its ID.
func (s *PriceListService) GetPriceListByID(id string) (*models.PriceList, error) {
	return s.repo.GetByID(id)
}

func validateDiscount(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return &BusinessValidationError{Message: "el descuento debe estar entre 0 y 100", Field: "descuento_porcentaje"}
	}
	return nil
}

// CreatePriceList creates a new price list.
func (s *PriceListService) CreatePriceList(list *models.PriceList) error {
	if err := validateDiscount(list.DiscountPct); err != nil {
		return err
	}
	list.Active = true
	return s.repo.Create(list)
}

// UpdatePriceList updates an existing price list. Historical orders are
// unaffected: they display and recalculate from their snapshot fields.
func (s *PriceListService) UpdatePriceList(list *models.PriceList) error {
	if err := validateDiscount(list.DiscountPct); err != nil {
		return err
	}
	return s.repo.Update(list)
}

// DeletePriceList removes a price list. A referenced list is deactivated
// and soft-deleted, never dropped, so historical order snapshots keep a
// resolvable origin.
func (s *PriceListService) DeletePriceList(id string) error {
	referenced, err := s.repo.IsReferenced(id)
	if err != nil {
		return err
	}
	if referenced {
		list, err := s.repo.GetByID(id)
		if err != nil {
			return err
		}
		list.Active = false
		if err := s.repo.Update(list); err != nil {
			return err
		}
	}
	return s.repo.Delete(id)
}

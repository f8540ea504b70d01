package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/quayside/stockpilot/internal/inventory/entity"
	"github.com/quayside/stockpilot/internal/inventory/repository"
)

type SupplierService struct {
	repo        *repository.SupplierRepository
	productRepo *repository.ProductRepository
	orderRepo   *repository.OrderRepository
}

func NewSupplierService(repo *repository.SupplierRepository, productRepo *repository.ProductRepository, orderRepo *repository.OrderRepository) *SupplierService {
	return &SupplierService{repo: repo, productRepo: productRepo, orderRepo: orderRepo}
}

type SupplierRequest struct {
	Name          string  `json:"name" binding:"required"`
	ContactPerson string  `json:"contact_person"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Address       string  `json:"address"`
	Rating        float64 `json:"rating" binding:"gte=0,lte=5"`
	LeadTime      int     `json:"lead_time" binding:"gte=0"`
}

func (s *SupplierService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Supplier, int64, error) {
	suppliers, total, err := s.repo.FindAll(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, err
	}
	for i := range suppliers {
		count, err := s.productRepo.CountBySupplier(ctx, suppliers[i].ID)
		if err != nil {
			return nil, 0, err
		}
		suppliers[i].ProductCount = count
	}
	return suppliers, total, nil
}

func (s *SupplierService) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.productRepo.CountBySupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	supplier.ProductCount = count
	return supplier, nil
}

func (s *SupplierService) Create(ctx context.Context, req *SupplierRequest) (*entity.Supplier, error) {
	supplier := &entity.Supplier{
		ID:            uuid.New().String(),
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Rating:        req.Rating,
		LeadTime:      req.LeadTime,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return supplier, nil
}

func (s *SupplierService) Update(ctx context.Context, id string, req *SupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("supplier lookup failed: %w", err)
	}

	supplier.Name = req.Name
	supplier.ContactPerson = req.ContactPerson
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	supplier.Rating = req.Rating
	supplier.LeadTime = req.LeadTime

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return supplier, nil
}

// Delete removes a supplier unless products or open purchase orders still
// reference it.
func (s *SupplierService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("supplier lookup failed: %w", err)
	}

	count, err := s.productRepo.CountBySupplier(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count supplier products: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("supplier still has %d product(s)", count)
	}

	_, total, err := s.orderRepo.FindAll(ctx, 1, 1, map[string]string{"supplier_id": id})
	if err != nil {
		return fmt.Errorf("failed to check supplier orders: %w", err)
	}
	if total > 0 {
		return fmt.Errorf("supplier has %d purchase order(s)", total)
	}

	return s.repo.Delete(ctx, id)
}

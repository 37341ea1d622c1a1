package plans

import (
	"context"
	"fmt"

	"github.com/DavidJosephLai/casewhr-backend/pkg/db/models"
	pkgerrors "github.com/DavidJosephLai/casewhr-backend/pkg/errors"
)

// Service exposes the public plan catalog.
type Service interface {
	List(ctx context.Context) ([]models.BillingPlan, error)
	Get(ctx context.Context, id string) (*models.BillingPlan, error)
}

type service struct {
	repo Repository
}

// NewService wires a plan catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("plans repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.BillingPlan, error) {
	plans, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plan catalog")
	}
	return plans, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.BillingPlan, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan id required")
	}
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plan")
	}
	if plan == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
	}
	return plan, nil
}

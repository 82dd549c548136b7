package services

import (
	"context"
	"errors"
	"strings"

	"fanstero_backend/internal/dto"
	"fanstero_backend/internal/logger"
	"fanstero_backend/internal/models"
	"fanstero_backend/internal/repositories"
	"fanstero_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type PlanService interface {
	ListActiveByProject(ctx context.Context, db *gorm.DB, projectID uint) ([]models.SubscriptionPlan, error)
	Create(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.CreatePlanRequest) (*models.SubscriptionPlan, error)
	Get(ctx context.Context, db *gorm.DB, id uint) (*models.SubscriptionPlan, error)
	Update(ctx context.Context, db *gorm.DB, ownerID, planID uint, req *dto.UpdatePlanRequest) (*models.SubscriptionPlan, error)
	// Deactivate - план не удаляется: на него ссылаются платежи и подписки
	Deactivate(ctx context.Context, db *gorm.DB, ownerID, planID uint) error
}

type planService struct {
	planRepo        repositories.PlanRepository
	projectService  ProjectService
	defaultCurrency string
}

func NewPlanService(planRepo repositories.PlanRepository, projectService ProjectService, defaultCurrency string) PlanService {
	return &planService{
		planRepo:        planRepo,
		projectService:  projectService,
		defaultCurrency: defaultCurrency,
	}
}

func (s *planService) ListActiveByProject(ctx context.Context, db *gorm.DB, projectID uint) ([]models.SubscriptionPlan, error) {
	if _, err := s.projectService.Get(ctx, db, projectID); err != nil {
		return nil, err
	}
	plans, err := s.planRepo.FindActiveByProject(db, projectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return plans, nil
}

func (s *planService) Create(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.CreatePlanRequest) (*models.SubscriptionPlan, error) {
	if _, err := s.projectService.GetOwned(ctx, db, ownerID, req.ProjectID); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = s.defaultCurrency
	}

	plan := &models.SubscriptionPlan{
		ProjectID:    req.ProjectID,
		Name:         strings.TrimSpace(req.Name),
		Price:        req.Price.Round(2),
		Currency:     currency,
		DurationDays: req.DurationDays,
		Active:       true,
	}
	if err := s.planRepo.Create(db, plan); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Plan created", "plan_id", plan.ID, "project_id", plan.ProjectID, "price", plan.Price.String())
	return plan, nil
}

func (s *planService) Get(ctx context.Context, db *gorm.DB, id uint) (*models.SubscriptionPlan, error) {
	plan, err := s.planRepo.FindByID(db, id)
	if err != nil {
		return nil, mapPlanError(err)
	}
	return plan, nil
}

func (s *planService) getOwned(ctx context.Context, db *gorm.DB, ownerID, planID uint) (*models.SubscriptionPlan, error) {
	plan, err := s.Get(ctx, db, planID)
	if err != nil {
		return nil, err
	}
	if _, err := s.projectService.GetOwned(ctx, db, ownerID, plan.ProjectID); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planService) Update(ctx context.Context, db *gorm.DB, ownerID, planID uint, req *dto.UpdatePlanRequest) (*models.SubscriptionPlan, error) {
	if _, err := s.getOwned(ctx, db, ownerID, planID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		fields["price"] = req.Price.Round(2)
	}
	if req.DurationDays != nil {
		fields["duration_days"] = *req.DurationDays
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}

	if len(fields) > 0 {
		if err := s.planRepo.Update(db, planID, fields); err != nil {
			return nil, mapPlanError(err)
		}
	}
	return s.Get(ctx, db, planID)
}

func (s *planService) Deactivate(ctx context.Context, db *gorm.DB, ownerID, planID uint) error {
	if _, err := s.getOwned(ctx, db, ownerID, planID); err != nil {
		return err
	}
	if err := s.planRepo.Update(db, planID, map[string]interface{}{"active": false}); err != nil {
		return mapPlanError(err)
	}
	logger.CtxInfo(ctx, "Plan deactivated", "plan_id", planID)
	return nil
}

func mapPlanError(err error) error {
	if errors.Is(err, repositories.ErrSubscriptionPlanNotFound) {
		return apperrors.ErrPlanNotFound
	}
	return apperrors.InternalError(err)
}

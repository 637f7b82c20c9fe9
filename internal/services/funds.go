package services

import (
	"context"

	"github.com/GregMSThompson/investor-portal/internal/errs"
	"github.com/GregMSThompson/investor-portal/internal/models"
)

type fundSource interface {
	Funds() []models.Fund
}

type fundService struct {
	source fundSource
}

func NewFundService(source fundSource) *fundService {
	return &fundService{source: source}
}

func (s *fundService) List(_ context.Context) []models.Fund {
	return s.source.Funds()
}

func (s *fundService) Get(_ context.Context, fundID string) (models.Fund, error) {
	for _, f := range s.source.Funds() {
		if f.FundID == fundID {
			return f, nil
		}
	}
	return models.Fund{}, errs.NewNotFoundError("fund not found")
}

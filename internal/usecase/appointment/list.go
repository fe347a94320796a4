package appointment

import (
	"context"
	"log"

	domain "github.com/BruksfildServices01/seucuidado/internal/domain/appointment"
	"github.com/BruksfildServices01/seucuidado/internal/domain/professional"
	"github.com/BruksfildServices01/seucuidado/internal/flash"
	"github.com/BruksfildServices01/seucuidado/internal/models"
)

// ======================================================
// Professional intake
// ======================================================

type ProfessionalDashboard struct {
	domain.Partition
	Professional      *models.Professional `json:"professional"`
	ProfileIncomplete bool                 `json:"profile_incomplete"`
	Missing           []string             `json:"missing"`
}

type ListForProfessional struct {
	repo     domain.Repository
	settings Settings
}

func NewListForProfessional(repo domain.Repository, settings Settings) *ListForProfessional {
	return &ListForProfessional{repo: repo, settings: settings}
}

func (uc *ListForProfessional) Execute(ctx context.Context, userID uint) (*ProfessionalDashboard, error) {
	prof, err := uc.repo.GetProfessionalByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	aps, err := uc.repo.ListForProfessional(ctx, prof.ID)
	if err != nil {
		return nil, err
	}

	c := professional.Evaluate(prof)

	return &ProfessionalDashboard{
		Partition:         domain.PartitionAt(aps, uc.settings.now()),
		Professional:      prof,
		ProfileIncomplete: !c.Complete,
		Missing:           c.Missing,
	}, nil
}

// ======================================================
// Client dashboard
// ======================================================

type ClientDashboard struct {
	Upcoming             []models.Appointment `json:"upcoming"`
	History              []models.Appointment `json:"history"`
	PaymentSuccessBanner bool                 `json:"payment_success_banner"`
}

type ListForClient struct {
	repo     domain.Repository
	flash    flash.Store
	settings Settings
}

func NewListForClient(repo domain.Repository, flashes flash.Store, settings Settings) *ListForClient {
	return &ListForClient{repo: repo, flash: flashes, settings: settings}
}

func (uc *ListForClient) Execute(ctx context.Context, userID uint) (*ClientDashboard, error) {
	aps, err := uc.repo.ListForClient(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := domain.PartitionAt(aps, uc.settings.now())
	out := &ClientDashboard{
		Upcoming: append(p.Requested, p.Scheduled...),
		History:  p.History,
	}

	shown, err := uc.flash.Pop(ctx, flash.PaymentSuccessKey(userID))
	if err != nil {
		log.Printf("payment banner flash: %v", err)
	}
	out.PaymentSuccessBanner = shown

	return out, nil
}

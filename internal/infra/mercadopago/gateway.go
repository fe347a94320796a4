package mercadopago

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	domain "github.com/BruksfildServices01/seucuidado/internal/domain/payment"
)

type Gateway struct {
	preferences preference.Client
	payments    mppayment.Client
}

func New(accessToken string) (*Gateway, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &Gateway{
		preferences: preference.NewClient(cfg),
		payments:    mppayment.NewClient(cfg),
	}, nil
}

func (g *Gateway) CreatePreference(ctx context.Context, in domain.PreferenceRequest) (*domain.Preference, error) {
	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:         in.AppointmentID,
				Title:      in.Description,
				Quantity:   1,
				UnitPrice:  in.Amount,
				CurrencyID: "BRL",
			},
		},
		BackURLs: &preference.BackURLsRequest{
			Success: in.SuccessURL,
			Failure: in.FailureURL,
			Pending: in.PendingURL,
		},
		AutoReturn:        "approved",
		NotificationURL:   in.NotificationURL,
		ExternalReference: in.AppointmentID,
		MarketplaceFee:    in.MarketplaceFee,
	}

	res, err := g.preferences.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("mercadopago create preference: %w", err)
	}

	return &domain.Preference{
		ID:               res.ID,
		InitPoint:        res.InitPoint,
		SandboxInitPoint: res.SandboxInitPoint,
	}, nil
}

func (g *Gateway) GetPayment(ctx context.Context, paymentID string) (*domain.PaymentInfo, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return nil, fmt.Errorf("mercadopago payment id %q: %w", paymentID, err)
	}

	res, err := g.payments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mercadopago get payment %d: %w", id, err)
	}

	return &domain.PaymentInfo{
		ID:                strconv.Itoa(res.ID),
		Status:            res.Status,
		ExternalReference: res.ExternalReference,
		Amount:            res.TransactionAmount,
	}, nil
}

var _ domain.Gateway = (*Gateway)(nil)

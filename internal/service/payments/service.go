package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SessionService/internal/integrations/payhere"
	"github.com/m04kA/SMC-SessionService/internal/service/payments/models"
)

// Service сервис вспомогательных операций с оплатой: хеш для формы и сверка статуса
type Service struct {
	hashIssuer   HashIssuer
	statusClient StatusClient
	logger       Logger
}

// NewService создает новый экземпляр сервиса
func NewService(hashIssuer HashIssuer, statusClient StatusClient, logger Logger) *Service {
	return &Service{
		hashIssuer:   hashIssuer,
		statusClient: statusClient,
		logger:       logger,
	}
}

// IssueHash выдает хеш для перенаправления клиента на страницу оплаты
func (s *Service) IssueHash(ctx context.Context, req *models.IssueHashRequest) (*models.IssueHashResponse, error) {
	if err := validateIssueHash(req); err != nil {
		s.logger.Warn("IssueHash: validation failed: %v", err)
		return nil, err
	}

	if !s.hashIssuer.Configured() {
		s.logger.Error("IssueHash: merchant secret is not configured")
		return nil, ErrMisconfigured
	}

	currency := strings.ToUpper(req.Currency)
	hash := s.hashIssuer.CheckoutHash(req.OrderID, req.Amount, currency)

	s.logger.Info("IssueHash: hash issued for order_id=%s, amount=%.2f %s", req.OrderID, req.Amount, currency)
	return &models.IssueHashResponse{
		Hash:       hash,
		MerchantID: s.hashIssuer.MerchantID(),
		Amount:     payhere.FormatAmount(req.Amount),
	}, nil
}

// CheckStatus сверяет статус оплаты заказа с шлюзом. Только чтение.
func (s *Service) CheckStatus(ctx context.Context, req *models.PaymentStatusRequest) (*models.PaymentStatusResponse, error) {
	if req == nil || strings.TrimSpace(req.OrderID) == "" {
		return nil, fmt.Errorf("%w: orderId is required", ErrInvalidInput)
	}

	status, err := s.statusClient.GetPaymentStatus(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, payhere.ErrUnauthorized) {
			s.logger.Error("CheckStatus: gateway rejected app credentials: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrMisconfigured, err)
		}
		s.logger.Error("CheckStatus: failed to query gateway for order_id=%s: %v", req.OrderID, err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if !status.Found {
		s.logger.Info("CheckStatus: no payments for order_id=%s", req.OrderID)
	}

	return &models.PaymentStatusResponse{
		OrderID:   req.OrderID,
		Success:   status.Success,
		Status:    status.Status,
		PaymentID: status.PaymentID,
	}, nil
}

func validateIssueHash(req *models.IssueHashRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if strings.TrimSpace(req.OrderID) == "" {
		return fmt.Errorf("%w: orderId is required", ErrInvalidInput)
	}
	if req.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if len(req.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidInput)
	}
	return nil
}

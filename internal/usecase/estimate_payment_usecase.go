package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/usecase/interfaces"

	"github.com/sirupsen/logrus"
)

var (
	ErrPaymentNotFound                = errors.New("payment not found")
	ErrInvalidPaymentID               = errors.New("invalid payment id")
	ErrInvalidPaymentEstimateID       = errors.New("invalid estimate_id")
	ErrInvalidMPPayload               = errors.New("invalid mercado pago payload")
	ErrEstimateNotPayable             = errors.New("estimate has no amount to pay")
	ErrPaymentGatewayNotConfigured    = errors.New("payment gateway not configured")
	ErrPaymentGatewayBadRequest       = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized     = errors.New("payment gateway unauthorized")
	ErrPaymentGatewayInvalidUsers     = errors.New("payment gateway invalid users involved")
	ErrPaymentGatewayCustomerNotFound = errors.New("payment gateway customer not found")
)

// PaymentSettings carries the gateway options read from configuration.
type PaymentSettings struct {
	// MockMode skips the external gateway and approves every payment.
	MockMode bool
	// Sandbox is set when the access token is a TEST- token.
	Sandbox            bool
	SandboxPayerEmail  string
	SandboxPayerUserID string
}

// IEstimatePaymentUseCase charges an estimate's final amount through the
// payment gateway and records the result. Administrators only.

type IEstimatePaymentUseCase interface {
	CreateAndApprove(ctx context.Context, identity entities.Identity, estimateID string, mpPayload json.RawMessage) (entities.EstimatePayment, error)
	GetByID(ctx context.Context, identity entities.Identity, id string) (entities.EstimatePayment, error)
	ListByEstimateID(ctx context.Context, identity entities.Identity, estimateID string) ([]entities.EstimatePayment, error)
}

type EstimatePaymentUseCase struct {
	repo         interfaces.IEstimatePaymentRepository
	estimateRepo interfaces.IEstimateRepository
	gateway      interfaces.IPaymentGateway
	settings     PaymentSettings
}

var _ IEstimatePaymentUseCase = (*EstimatePaymentUseCase)(nil)

func NewEstimatePaymentUseCase(repo interfaces.IEstimatePaymentRepository, estimateRepo interfaces.IEstimateRepository, gateway interfaces.IPaymentGateway, settings PaymentSettings) *EstimatePaymentUseCase {
	return &EstimatePaymentUseCase{repo: repo, estimateRepo: estimateRepo, gateway: gateway, settings: settings}
}

func (u *EstimatePaymentUseCase) CreateAndApprove(ctx context.Context, identity entities.Identity, estimateID string, mpPayload json.RawMessage) (entities.EstimatePayment, error) {
	if err := requireAdmin(identity); err != nil {
		return entities.EstimatePayment{}, err
	}
	logrus.Infof("[payment][usecase] create-and-approve start raw_estimate_id=%q payload_len=%d", estimateID, len(mpPayload))
	mockMode := u.settings.MockMode
	estimateID = strings.TrimSpace(estimateID)
	if estimateID == "" {
		return entities.EstimatePayment{}, ErrInvalidPaymentEstimateID
	}
	if len(mpPayload) == 0 || !json.Valid(mpPayload) {
		if !mockMode {
			logrus.Warnf("[payment][usecase] invalid payload estimate_id=%s", estimateID)
			return entities.EstimatePayment{}, ErrInvalidMPPayload
		}
		mpPayload = json.RawMessage("{}")
	}
	if u.gateway == nil && !mockMode {
		return entities.EstimatePayment{}, ErrPaymentGatewayNotConfigured
	}

	est, err := u.estimateRepo.GetByID(ctx, estimateID)
	if err != nil {
		logrus.Errorf("[payment][usecase] failed loading estimate estimate_id=%s err=%v", estimateID, err)
		return entities.EstimatePayment{}, err
	}
	if est.ID == "" {
		return entities.EstimatePayment{}, ErrEstimateNotFound
	}
	amount := est.CalculatedValues.FinalPayment
	if amount <= 0 {
		logrus.Warnf("[payment][usecase] estimate not payable estimate_id=%s final_payment=%d", estimateID, amount)
		return entities.EstimatePayment{}, ErrEstimateNotPayable
	}

	// Link the charge to the estimate so gateway events can be reconciled.
	var reqMap map[string]any
	if err := json.Unmarshal(mpPayload, &reqMap); err != nil || reqMap == nil {
		return entities.EstimatePayment{}, ErrInvalidMPPayload
	}
	if !mockMode {
		if !hasNonEmptyString(reqMap, "payment_method_id") {
			logrus.Warnf("[payment][usecase] missing payment_method_id estimate_id=%s", estimateID)
			return entities.EstimatePayment{}, ErrInvalidMPPayload
		}
		u.normalizeSandboxPayer(reqMap)
		u.ensurePayerDefaults(reqMap)
		if !hasPayer(reqMap) {
			logrus.Warnf("[payment][usecase] missing/invalid payer estimate_id=%s", estimateID)
			return entities.EstimatePayment{}, ErrInvalidMPPayload
		}
	}
	if _, ok := reqMap["external_reference"]; !ok {
		reqMap["external_reference"] = estimateID
	}
	if _, ok := reqMap["description"]; !ok {
		reqMap["description"] = fmt.Sprintf("Estimate %s", estimateID)
	}
	// The stored estimate is the source of truth for the amount.
	reqMap["transaction_amount"] = float64(amount)
	if b, err := json.Marshal(reqMap); err == nil {
		mpPayload = b
	}

	var providerPaymentID, providerStatus string
	var providerResp json.RawMessage
	if mockMode {
		logrus.Infof("[payment][usecase] mock mode enabled; skipping external payment gateway estimate_id=%s", estimateID)
		providerPaymentID, providerStatus, providerResp, err = mockApprovedPayment(reqMap)
		if err != nil {
			return entities.EstimatePayment{}, err
		}
	} else {
		providerPaymentID, providerStatus, providerResp, err = u.gateway.CreatePayment(ctx, mpPayload)
		if err != nil {
			logrus.Errorf("[payment][usecase] payment gateway failed estimate_id=%s err=%v", estimateID, err)
			return entities.EstimatePayment{}, classifyGatewayError(err)
		}
	}
	logrus.Infof("[payment][usecase] payment gateway success estimate_id=%s provider_payment_id=%s provider_status=%s", estimateID, providerPaymentID, providerStatus)

	var parsed map[string]interface{}
	if err := json.Unmarshal(providerResp, &parsed); err != nil {
		logrus.Warnf("[payment][usecase] provider response unmarshal failed estimate_id=%s err=%v", estimateID, err)
	}

	p := entities.EstimatePayment{
		ID:                 providerPaymentID,
		EstimateID:         estimateID,
		Amount:             amount,
		Date:               time.Now().UTC(),
		Status:             entities.PaymentStatusFromProvider(providerStatus),
		CreatedBy:          identity.UserID,
		ProviderPayloadRaw: providerResp,
		ProviderPayload:    parsed,
	}

	created, err := u.repo.Create(ctx, p)
	if err != nil {
		logrus.Errorf("[payment][usecase] payment repository create failed estimate_id=%s payment_id=%s err=%v", estimateID, p.ID, err)
		return entities.EstimatePayment{}, err
	}
	logrus.Infof("[payment][usecase] create-and-approve success estimate_id=%s payment_id=%s status=%s", estimateID, created.ID, created.Status)
	return created, nil
}

func mockApprovedPayment(req map[string]any) (string, string, json.RawMessage, error) {
	id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
	now := time.Now().UTC().Format(time.RFC3339Nano)
	resp := make(map[string]any, len(req)+5)
	for k, v := range req {
		resp[k] = v
	}
	resp["id"] = id
	resp["status"] = "approved"
	resp["status_detail"] = "accredited"
	resp["date_created"] = now
	resp["date_approved"] = now
	b, err := json.Marshal(resp)
	if err != nil {
		return "", "", nil, err
	}
	return id, "approved", b, nil
}

func classifyGatewayError(err error) error {
	switch {
	case isGatewayCustomerNotFound(err):
		return ErrPaymentGatewayCustomerNotFound
	case isGatewayInvalidUsers(err):
		return ErrPaymentGatewayInvalidUsers
	case isGatewayUnauthorized(err):
		return ErrPaymentGatewayUnauthorized
	case isGatewayBadRequest(err):
		return ErrPaymentGatewayBadRequest
	}
	return err
}

func hasNonEmptyString(m map[string]any, key string) bool {
	v, ok := m[key]
	if !ok {
		return false
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	return strings.TrimSpace(s) != ""
}

func hasPayer(m map[string]any) bool {
	v, ok := m["payer"]
	if !ok {
		return false
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return hasNonEmptyString(payer, "email") || hasPayerID(payer)
}

func hasPayerID(payer map[string]any) bool {
	v, ok := payer["id"]
	if !ok || v == nil {
		return false
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	return s != "" && s != "<nil>"
}

func (u *EstimatePaymentUseCase) ensurePayerDefaults(m map[string]any) {
	v, ok := m["payer"]
	if !ok || v == nil {
		v = map[string]any{}
		m["payer"] = v
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return
	}
	if _, ok := payer["type"]; !ok {
		payer["type"] = "customer"
	}

	// In sandbox either payer.id or payer.email may be used; email is only
	// filled when both are missing.
	if !hasPayerID(payer) && !hasNonEmptyString(payer, "email") {
		if u.settings.SandboxPayerEmail != "" {
			payer["email"] = u.settings.SandboxPayerEmail
		} else if u.settings.Sandbox {
			payer["email"] = "test_user_br@testuser.com"
		}
	}
}

func (u *EstimatePaymentUseCase) normalizeSandboxPayer(m map[string]any) {
	if !u.settings.Sandbox || u.settings.SandboxPayerUserID == "" || u.settings.SandboxPayerEmail == "" {
		return
	}
	payer, ok := m["payer"].(map[string]any)
	if !ok || !hasPayerID(payer) || hasNonEmptyString(payer, "email") {
		return
	}
	if strings.TrimSpace(fmt.Sprintf("%v", payer["id"])) != u.settings.SandboxPayerUserID {
		return
	}
	payer["email"] = u.settings.SandboxPayerEmail
	delete(payer, "id")
	logrus.Debug("[payment][usecase] mapped sandbox payer user_id to payer.email")
}

func isGatewayBadRequest(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"bad_request\"") || strings.Contains(msg, "\"status\":400")
}

func isGatewayUnauthorized(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"unauthorized\"") || strings.Contains(msg, "\"status\":401")
}

func isGatewayInvalidUsers(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid users involved") || strings.Contains(msg, "\"code\":2034")
}

func isGatewayCustomerNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "customer not found") || strings.Contains(msg, "\"code\":2002")
}

func (u *EstimatePaymentUseCase) GetByID(ctx context.Context, identity entities.Identity, id string) (entities.EstimatePayment, error) {
	if err := requireAdmin(identity); err != nil {
		return entities.EstimatePayment{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.EstimatePayment{}, ErrInvalidPaymentID
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.EstimatePayment{}, err
	}
	if p.ID == "" {
		return entities.EstimatePayment{}, ErrPaymentNotFound
	}
	return p, nil
}

func (u *EstimatePaymentUseCase) ListByEstimateID(ctx context.Context, identity entities.Identity, estimateID string) ([]entities.EstimatePayment, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	estimateID = strings.TrimSpace(estimateID)
	if estimateID == "" {
		return nil, ErrInvalidPaymentEstimateID
	}
	return u.repo.ListByEstimateID(ctx, estimateID)
}

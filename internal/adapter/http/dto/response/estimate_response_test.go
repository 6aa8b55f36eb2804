package response

import (
	"encoding/json"
	"testing"
	"time"

	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/domain/pricing"
	"pcshop_service/internal/usecase"
)

func TestFromEstimate(t *testing.T) {
	now := time.Now().UTC()
	e := entities.Estimate{
		ID:               "est-1",
		TableData:        []entities.LineItem{{ProductName: "i5", Quantity: 1, Price: "250,000"}},
		PaymentInfo:      &entities.PaymentInfo{LaborCost: 10000, RoundingType: entities.RoundingThousand},
		CalculatedValues: entities.CalculatedValues{ProductTotal: 250000, TotalPurchase: 260000, FinalPayment: 260000},
		Notes:            "internal",
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	res := FromEstimate(e)
	if res.ID != "est-1" || res.Notes != "internal" {
		t.Fatalf("unexpected fields: %+v", res)
	}
	if res.PaymentInfo.LaborCost != 10000 || res.CalculatedValues.FinalPayment != 260000 {
		t.Fatalf("unexpected amounts: %+v", res)
	}
	if res.ServiceData == nil {
		t.Fatalf("expected empty service data, got nil")
	}
	if !res.CreatedAt.Equal(now) || !res.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected dates: %+v", res)
	}

	if got := FromEstimate(entities.Estimate{ID: "est-2"}); got.PaymentInfo.RoundingType != entities.RoundingNone || got.TableData == nil {
		t.Fatalf("nil payment info must render as zero terms: %+v", got)
	}
}

func TestFromEstimateEdit_EmptyNotices(t *testing.T) {
	res := FromEstimateEdit(entities.Estimate{ID: "est-1"}, nil)
	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	if notices, ok := body["notices"].([]any); !ok || len(notices) != 0 {
		t.Fatalf("expected empty notices array, got %s", raw)
	}

	res = FromEstimateEdit(entities.Estimate{ID: "est-1"}, []pricing.Notice{{Code: pricing.NoticeRoundingCleared}})
	if len(res.Notices) != 1 || res.Notices[0].Code != "rounding_cleared" {
		t.Fatalf("unexpected notices %+v", res.Notices)
	}
}

func TestNewPagedResponse(t *testing.T) {
	res := NewPagedResponse[int](nil, 0, 1, 20)
	if res.Items == nil || res.Page != 1 || res.PageSize != 20 {
		t.Fatalf("unexpected page %+v", res)
	}
	if got := FromBulkImport(nil); got.Items == nil || got.Count != 0 {
		t.Fatalf("unexpected bulk import %+v", got)
	}
}

func TestFromEstimatePayment(t *testing.T) {
	now := time.Now().UTC()
	p := entities.EstimatePayment{
		ID:                 "pay-1",
		EstimateID:         "est-1",
		Amount:             1364000,
		Date:               now,
		Status:             entities.PaymentStatusApproved,
		ProviderPayloadRaw: json.RawMessage(`{"id":1}`),
		ProviderPayload:    map[string]interface{}{"id": float64(1)},
	}

	res := FromEstimatePayment(p)
	if res.PaymentID != "pay-1" || res.ID != "pay-1" || res.EstimateID != "est-1" {
		t.Fatalf("unexpected ids: %+v", res)
	}
	if res.Amount != 1364000 || res.Status != "approved" || !res.PaymentDate.Equal(now) {
		t.Fatalf("unexpected mapped fields: %+v", res)
	}
	if res.MPPayloadRaw != `{"id":1}` || res.MPPayload["id"] != float64(1) {
		t.Fatalf("unexpected provider payload: %+v", res)
	}
}

func TestFromServiceRequest_HidesStorageKeys(t *testing.T) {
	r := entities.ServiceRequest{
		ID:          "sr-1",
		Kind:        entities.KindRepair,
		Status:      entities.RequestStatusReceived,
		Attachments: []entities.Attachment{{Key: "u1/0-x-a.png", URL: "https://cdn/a.png", Filename: "a.png"}},
	}
	raw, _ := json.Marshal(FromServiceRequest(r))
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	atts := body["attachments"].([]any)
	first := atts[0].(map[string]any)
	if _, ok := first["key"]; ok {
		t.Fatalf("storage key must not be exposed: %s", raw)
	}
	if body["kind"] != "repair" || first["url"] != "https://cdn/a.png" {
		t.Fatalf("unexpected body %s", raw)
	}

	if got := FromReview(entities.Review{ID: "rv-1"}); got.Images == nil {
		t.Fatalf("expected empty images array")
	}
}

func TestFromSession(t *testing.T) {
	exp := time.Now().Add(time.Hour).UTC()
	res := FromSession(usecase.Session{
		Token:     "tok",
		ExpiresAt: exp,
		User:      entities.User{ID: "u1", Email: "kim@shop.kr", PasswordHash: "hash", Authority: entities.AuthorityAdministrative},
	})
	if res.AccessToken != "tok" || res.TokenType != "Bearer" || !res.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected session %+v", res)
	}
	raw, _ := json.Marshal(res)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	user := body["user"].(map[string]any)
	if _, ok := user["password_hash"]; ok || user["authority"] != "administrative" {
		t.Fatalf("unexpected user body %s", raw)
	}
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	apikeydomain "github.com/X-CodesTech/wassel-api/internal/apikey/domain"
	apikeyrepository "github.com/X-CodesTech/wassel-api/internal/apikey/repository"
	apikeyservice "github.com/X-CodesTech/wassel-api/internal/apikey/service"
	attachmentdomain "github.com/X-CodesTech/wassel-api/internal/attachment/domain"
	attachmentservice "github.com/X-CodesTech/wassel-api/internal/attachment/service"
	auditdomain "github.com/X-CodesTech/wassel-api/internal/audit/domain"
	auditrepository "github.com/X-CodesTech/wassel-api/internal/audit/repository"
	auditservice "github.com/X-CodesTech/wassel-api/internal/audit/service"
	"github.com/X-CodesTech/wassel-api/internal/config"
	"github.com/X-CodesTech/wassel-api/internal/events"
	locationdomain "github.com/X-CodesTech/wassel-api/internal/location/domain"
	locationservice "github.com/X-CodesTech/wassel-api/internal/location/service"
	orderdomain "github.com/X-CodesTech/wassel-api/internal/order/domain"
	orderservice "github.com/X-CodesTech/wassel-api/internal/order/service"
	pricelistdomain "github.com/X-CodesTech/wassel-api/internal/pricelist/domain"
	pricelistservice "github.com/X-CodesTech/wassel-api/internal/pricelist/service"
	pricingdomain "github.com/X-CodesTech/wassel-api/internal/pricing/domain"
	subactivitydomain "github.com/X-CodesTech/wassel-api/internal/subactivity/domain"
	subactivityservice "github.com/X-CodesTech/wassel-api/internal/subactivity/service"
	vendorcostservice "github.com/X-CodesTech/wassel-api/internal/vendorcost/service"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeObjectStore struct{}

func (fakeObjectStore) UploadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://storage.test/upload/" + key, nil
}

func (fakeObjectStore) DownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://storage.test/download/" + key, nil
}

func (fakeObjectStore) ObjectExists(ctx context.Context, key string) (bool, error) {
	return true, nil
}

func (fakeObjectStore) DeleteObject(ctx context.Context, key string) error {
	return nil
}

type serverFixture struct {
	srv           *Server
	engine        *gin.Engine
	db            *gorm.DB
	node          *snowflake.Node
	apiKey        string
	subActivityID string
	locationID    string
}

func setupServer(t *testing.T, rateLimit int) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&apikeydomain.APIKey{},
		&auditdomain.AuditLog{},
		&subactivitydomain.SubActivity{},
		&locationdomain.Location{},
		&pricelistdomain.PriceList{},
		&pricingdomain.SubActivityPrice{},
		&pricingdomain.LocationPrice{},
		&orderdomain.Order{},
		&attachmentdomain.Attachment{},
		&events.DomainEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	log := zap.NewNop()

	orgID := node.Generate()
	plaintext, err := apikeydomain.GeneratePlaintext()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	key := apikeydomain.APIKey{
		ID:       node.Generate(),
		OrgID:    orgID,
		Name:     "test",
		KeyHash:  apikeydomain.HashAPIKey(plaintext),
		Prefix:   plaintext[:8],
		IsActive: true,
	}
	if err := db.Create(&key).Error; err != nil {
		t.Fatalf("seed api key: %v", err)
	}

	subActivity := subactivitydomain.SubActivity{
		ID:     node.Generate(),
		OrgID:  orgID,
		Code:   "LOADING",
		Name:   "Loading",
		Active: true,
	}
	if err := db.Create(&subActivity).Error; err != nil {
		t.Fatalf("seed sub activity: %v", err)
	}
	location := locationdomain.Location{ID: node.Generate(), City: "Amman", Country: "Jordan", Active: true}
	if err := db.Create(&location).Error; err != nil {
		t.Fatalf("seed location: %v", err)
	}

	cfg := &config.Config{
		Environment: "test",
		RateLimit:   config.RateLimitConfig{Limit: rateLimit, Window: time.Minute},
		Storage:     config.StorageConfig{PresignExpiry: 15 * time.Minute},
	}

	outbox := events.NewOutbox(db, node)
	subActivitySvc := subactivityservice.NewService(subactivityservice.ServiceParam{DB: db, Log: log, GenID: node})
	locationSvc := locationservice.NewService(locationservice.ServiceParam{DB: db, Log: log})
	priceListSvc := pricelistservice.NewService(pricelistservice.ServiceParam{
		DB:             db,
		Log:            log,
		GenID:          node,
		SubActivitySvc: subActivitySvc,
		LocationSvc:    locationSvc,
		Outbox:         outbox,
	})
	orderSvc := orderservice.NewService(orderservice.ServiceParam{
		DB:             db,
		Log:            log,
		GenID:          node,
		SubActivitySvc: subActivitySvc,
		Outbox:         outbox,
	})
	attachmentSvc := attachmentservice.NewService(attachmentservice.ServiceParam{
		DB:       db,
		Log:      log,
		GenID:    node,
		Config:   cfg,
		Store:    fakeObjectStore{},
		OrderSvc: orderSvc,
		Outbox:   outbox,
	})
	vendorCostSvc := vendorcostservice.NewService(vendorcostservice.ServiceParam{DB: db, Log: log})
	apiKeySvc := apikeyservice.New(apikeyservice.ServiceParam{DB: db, Log: log, GenID: node, Repo: apikeyrepository.Provide()})
	auditSvc := auditservice.NewService(auditservice.ServiceParam{DB: db, Log: log, GenID: node, Repo: auditrepository.Provide()})

	engine := gin.New()
	srv := NewServer(ServerParam{
		Cfg:            cfg,
		DB:             db,
		Log:            log,
		SubActivitySvc: subActivitySvc,
		LocationSvc:    locationSvc,
		PriceListSvc:   priceListSvc,
		OrderSvc:       orderSvc,
		AttachmentSvc:  attachmentSvc,
		VendorCostSvc:  vendorCostSvc,
		APIKeySvc:      apiKeySvc,
		AuditSvc:       auditSvc,
		Engine:         engine,
	})
	srv.RegisterAPIRoutes()

	return &serverFixture{
		srv:           srv,
		engine:        engine,
		db:            db,
		node:          node,
		apiKey:        plaintext,
		subActivityID: subActivity.ID.String(),
		locationID:    location.ID.String(),
	}
}

func (f *serverFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.apiKey)

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func (f *serverFixture) createList(t *testing.T, ownerType string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/price-lists", map[string]any{
		"ownerType": ownerType,
		"ownerId":   f.node.Generate().String(),
		"name":      "Standard rates",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create list: status %d body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.Data.ID
}

func TestHealthzOpen(t *testing.T) {
	f := setupServer(t, 100)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMissingAPIKeyRejected(t *testing.T) {
	f := setupServer(t, 100)

	req := httptest.NewRequest(http.MethodGet, "/api/sub-activities", nil)
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestOrgHeaderRejected(t *testing.T) {
	f := setupServer(t, 100)

	req := httptest.NewRequest(http.MethodGet, "/api/sub-activities", nil)
	req.Header.Set("Authorization", "Bearer "+f.apiKey)
	req.Header.Set(HeaderOrg, "12345")
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAddLineClosedSchema(t *testing.T) {
	f := setupServer(t, 100)
	listID := f.createList(t, "vendor")

	rec := f.do(t, http.MethodPost, "/api/price-lists/"+listID+"/lines", map[string]any{
		"subActivity":   f.subActivityID,
		"pricingMethod": "perItem",
		"cost":          "50",
		"surprise":      true,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body %s", rec.Code, rec.Body.String())
	}

	var resp APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "surprise" || resp.Errors[0].Code != "unrecognized_field" {
		t.Fatalf("unexpected errors: %+v", resp.Errors)
	}
}

func TestAddLineVendorRoleFieldNaming(t *testing.T) {
	f := setupServer(t, 100)
	listID := f.createList(t, "vendor")

	// basePrice is the customer-side name; a vendor list must reject it.
	rec := f.do(t, http.MethodPost, "/api/price-lists/"+listID+"/lines", map[string]any{
		"subActivity":   f.subActivityID,
		"pricingMethod": "perItem",
		"basePrice":     "50",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPost, "/api/price-lists/"+listID+"/lines", map[string]any{
		"subActivity":   f.subActivityID,
		"pricingMethod": "perItem",
		"cost":          "50",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestAddPerLocationLine(t *testing.T) {
	f := setupServer(t, 100)
	listID := f.createList(t, "customer")

	rec := f.do(t, http.MethodPost, "/api/price-lists/"+listID+"/lines", map[string]any{
		"subActivity":   f.subActivityID,
		"pricingMethod": "perLocation",
		"locationPrices": []map[string]any{
			{"pricingMethod": "perLocation", "location": f.locationID, "price": "120"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data pricelistdomain.MutationResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data.PriceList.SubActivityPrices) != 1 {
		t.Fatalf("expected 1 line, got %d", len(resp.Data.PriceList.SubActivityPrices))
	}
}

func TestMethodImmutableConflict(t *testing.T) {
	f := setupServer(t, 100)
	listID := f.createList(t, "vendor")

	rec := f.do(t, http.MethodPost, "/api/price-lists/"+listID+"/lines", map[string]any{
		"subActivity":   f.subActivityID,
		"pricingMethod": "perItem",
		"cost":          "50",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add line: status %d", rec.Code)
	}
	var added struct {
		Data pricelistdomain.MutationResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &added); err != nil {
		t.Fatalf("decode: %v", err)
	}
	lineID := added.Data.PriceList.SubActivityPrices[0].ID

	rec = f.do(t, http.MethodPatch, "/api/price-lists/"+listID+"/lines/"+lineID, map[string]any{
		"subActivity":   f.subActivityID,
		"pricingMethod": "perLocation",
		"locationPrices": []map[string]any{
			{"pricingMethod": "perLocation", "location": f.locationID, "cost": "70"},
		},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestUnknownPriceListIs404(t *testing.T) {
	f := setupServer(t, 100)

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/api/price-lists/%d", f.node.Generate()), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	f := setupServer(t, 100)

	rec := f.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customerId":    f.node.Generate().String(),
		"subActivityId": f.subActivityID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create order: status %d body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data orderdomain.Order `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	orderID := created.Data.ID.String()

	rec = f.do(t, http.MethodPost, "/api/orders/"+orderID+"/transition", map[string]any{"status": "confirmed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("transition: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPost, "/api/orders/"+orderID+"/transition", map[string]any{"status": "delivered"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on skipped state, got %d", rec.Code)
	}
}

func TestOrderRequestedDate(t *testing.T) {
	f := setupServer(t, 100)

	rec := f.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customerId":    f.node.Generate().String(),
		"subActivityId": f.subActivityID,
		"requestedAt":   "not-a-date",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad requestedAt, got %d body %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customerId":    f.node.Generate().String(),
		"subActivityId": f.subActivityID,
		"requestedAt":   "2026-09-15T08:00:00Z",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create order: status %d body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data orderdomain.Order `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Data.RequestedAt == nil || !created.Data.RequestedAt.Equal(time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected requestedAt: %v", created.Data.RequestedAt)
	}
}

func TestVendorCostQueryValidation(t *testing.T) {
	f := setupServer(t, 100)

	rec := f.do(t, http.MethodGet, "/api/vendor-costs", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without subActivityId, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/api/vendor-costs?subActivityId="+f.subActivityID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestRateLimitExceeded(t *testing.T) {
	f := setupServer(t, 2)

	for i := 0; i < 2; i++ {
		rec := f.do(t, http.MethodPost, "/api/price-lists", map[string]any{
			"ownerType": "vendor",
			"ownerId":   f.node.Generate().String(),
			"name":      fmt.Sprintf("List %d", i),
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d body %s", i, rec.Code, rec.Body.String())
		}
	}

	rec := f.do(t, http.MethodPost, "/api/price-lists", map[string]any{
		"ownerType": "vendor",
		"ownerId":   f.node.Generate().String(),
		"name":      "One too many",
	})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestMutationWritesAuditRow(t *testing.T) {
	f := setupServer(t, 100)
	f.createList(t, "vendor")

	var count int64
	if err := f.db.Model(&auditdomain.AuditLog{}).
		Where("action = ?", auditdomain.ActionPriceListCreate).
		Count(&count).Error; err != nil {
		t.Fatalf("count audit rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 audit row, got %d", count)
	}
}

func TestAuditLogCursorPaging(t *testing.T) {
	f := setupServer(t, 100)
	for i := 0; i < 3; i++ {
		f.createList(t, "vendor")
	}

	rec := f.do(t, http.MethodGet, "/api/audit-logs?limit=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d body %s", rec.Code, rec.Body.String())
	}
	var page struct {
		Data         []auditdomain.AuditLog `json:"data"`
		NextCursorID string                 `json:"next_cursor_id"`
		NextCursorAt string                 `json:"next_cursor_at"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(page.Data))
	}
	if page.NextCursorID == "" || page.NextCursorAt == "" {
		t.Fatal("expected next cursor on a full page")
	}

	rec = f.do(t, http.MethodGet,
		"/api/audit-logs?limit=2&cursor_id="+page.NextCursorID+"&cursor_at="+url.QueryEscape(page.NextCursorAt), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("second page: status %d body %s", rec.Code, rec.Body.String())
	}
	var second struct {
		Data []auditdomain.AuditLog `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(second.Data) != 1 {
		t.Fatalf("expected 1 row on second page, got %d", len(second.Data))
	}
	if second.Data[0].ID == page.Data[0].ID || second.Data[0].ID == page.Data[1].ID {
		t.Fatal("second page repeated a first page row")
	}
}

func TestAPIKeyIssueAndRevoke(t *testing.T) {
	f := setupServer(t, 100)

	rec := f.do(t, http.MethodPost, "/api/api-keys", map[string]any{"name": "ci"})
	if rec.Code != http.StatusOK {
		t.Fatalf("issue: status %d body %s", rec.Code, rec.Body.String())
	}
	var issued struct {
		Data apikeyservice.IssueResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &issued); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if issued.Data.Plaintext == "" {
		t.Fatal("expected plaintext in issue response")
	}

	rec = f.do(t, http.MethodDelete, "/api/api-keys/"+issued.Data.Key.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("revoke: status %d body %s", rec.Code, rec.Body.String())
	}

	// The revoked key must stop authenticating.
	req := httptest.NewRequest(http.MethodGet, "/api/sub-activities", nil)
	req.Header.Set("Authorization", "Bearer "+issued.Data.Plaintext)
	recorder := httptest.NewRecorder()
	f.engine.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with revoked key, got %d", recorder.Code)
	}
}

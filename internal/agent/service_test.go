package agent

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/internal/auditlog"
	"github.com/staysupply/staysupply-backend/pkg/db/models"
	"github.com/staysupply/staysupply-backend/pkg/enums"
	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
	"github.com/staysupply/staysupply-backend/pkg/types"
)

type stubAgentStore struct {
	reservation *models.Reservation
	products    []models.Product
	createdCart *models.Cart
	findErr     error
	createErr   error
}

func (s *stubAgentStore) FindReservationForAnalysis(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.reservation == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.reservation, nil
}

func (s *stubAgentStore) FindInStockProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	matched := make([]models.Product, 0, len(s.products))
	for _, product := range s.products {
		for _, id := range ids {
			if product.ID == id && product.InStock {
				matched = append(matched, product)
			}
		}
	}
	return matched, nil
}

func (s *stubAgentStore) CreateCart(ctx context.Context, cart *models.Cart) error {
	if s.createErr != nil {
		return s.createErr
	}
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	s.createdCart = cart
	return nil
}

type auditEntry struct {
	action      string
	details     types.JSONMap
	triggeredBy string
}

type stubAuditRecorder struct {
	entries []auditEntry
	err     error
}

func (s *stubAuditRecorder) Record(ctx context.Context, reservationID uuid.UUID, action string, details types.JSONMap, triggeredBy string) (*models.AgentAuditLog, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.entries = append(s.entries, auditEntry{action: action, details: details, triggeredBy: triggeredBy})
	return &models.AgentAuditLog{ReservationID: reservationID, Action: action}, nil
}

func (s *stubAuditRecorder) actions() []string {
	actions := make([]string, 0, len(s.entries))
	for _, entry := range s.entries {
		actions = append(actions, entry.action)
	}
	return actions
}

func templateReservation(items []models.InventoryTemplateItem, carts []models.Cart) *models.Reservation {
	propertyID := uuid.New()
	return &models.Reservation{
		ID:         uuid.New(),
		PropertyID: propertyID,
		Property: &models.Property{
			ID: propertyID,
			Template: &models.InventoryTemplate{
				ID:         uuid.New(),
				PropertyID: propertyID,
				Items:      items,
			},
		},
		Carts: carts,
	}
}

func TestAnalyzeComputesGapsAndCreatesCart(t *testing.T) {
	towels := models.Product{ID: uuid.New(), Name: "Bath Towels", Price: 12.50, InStock: true}
	soap := models.Product{ID: uuid.New(), Name: "Hand Soap", Price: 3.25, InStock: true}

	reservation := templateReservation([]models.InventoryTemplateItem{
		{ProductID: towels.ID, Quantity: 6, Required: true, Product: &towels},
		{ProductID: soap.ID, Quantity: 4, Required: true, Product: &soap},
	}, []models.Cart{
		{Status: enums.CartStatusPending, Items: []models.CartItem{
			{ProductID: towels.ID, Quantity: 2},
		}},
	})

	store := &stubAgentStore{reservation: reservation, products: []models.Product{towels, soap}}
	audit := &stubAuditRecorder{}
	engine, err := NewEngine(store, audit)
	if err != nil {
		t.Fatalf("engine constructor failed: %v", err)
	}

	result, err := engine.Analyze(context.Background(), reservation.ID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(result.Gaps) != 2 {
		t.Fatalf("expected 2 gaps got %d", len(result.Gaps))
	}
	if result.Gaps[0].GapQuantity != 4 || result.Gaps[0].ExistingQuantity != 2 {
		t.Fatalf("unexpected towel gap %+v", result.Gaps[0])
	}
	if result.Gaps[1].GapQuantity != 4 || result.Gaps[1].ExistingQuantity != 0 {
		t.Fatalf("unexpected soap gap %+v", result.Gaps[1])
	}
	if result.ItemsAdded != 2 {
		t.Fatalf("expected 2 items added got %d", result.ItemsAdded)
	}

	cart := store.createdCart
	if cart == nil {
		t.Fatal("expected a cart to be created")
	}
	if cart.Status != enums.CartStatusSuggested {
		t.Fatalf("expected SUGGESTED cart got %s", cart.Status)
	}
	if cart.SuggestedBy == nil || *cart.SuggestedBy != auditlog.TriggeredByAgent {
		t.Fatalf("expected agent-suggested cart got %+v", cart.SuggestedBy)
	}
	want := 12.50*4 + 3.25*4
	if cart.TotalAmount != want {
		t.Fatalf("expected total %v got %v", want, cart.TotalAmount)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 cart items got %d", len(cart.Items))
	}
	if cart.Items[0].Price != 12.50 || cart.Items[0].Quantity != 4 {
		t.Fatalf("unexpected price snapshot %+v", cart.Items[0])
	}
}

func TestAnalyzeSkipsOptionalAndSatisfiedItems(t *testing.T) {
	sheets := models.Product{ID: uuid.New(), Name: "Sheets", Price: 40, InStock: true}
	candles := models.Product{ID: uuid.New(), Name: "Candles", Price: 8, InStock: true}
	mugs := models.Product{ID: uuid.New(), Name: "Mugs", Price: 5, InStock: true}

	reservation := templateReservation([]models.InventoryTemplateItem{
		{ProductID: sheets.ID, Quantity: 2, Required: true, Product: &sheets},
		{ProductID: candles.ID, Quantity: 3, Required: false, Product: &candles},
		{ProductID: mugs.ID, Quantity: 4, Required: true, Product: &mugs},
	}, []models.Cart{
		{Status: enums.CartStatusApproved, Items: []models.CartItem{
			{ProductID: mugs.ID, Quantity: 4},
		}},
	})

	store := &stubAgentStore{reservation: reservation, products: []models.Product{sheets, candles, mugs}}
	audit := &stubAuditRecorder{}
	engine, _ := NewEngine(store, audit)

	result, err := engine.Analyze(context.Background(), reservation.ID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(result.Gaps) != 1 {
		t.Fatalf("expected only the sheets gap got %d gaps", len(result.Gaps))
	}
	if result.Gaps[0].ProductID != sheets.ID {
		t.Fatalf("unexpected gap product %s", result.Gaps[0].ProductName)
	}
}

func TestAnalyzeQuantitiesAccumulateAcrossCarts(t *testing.T) {
	towels := models.Product{ID: uuid.New(), Name: "Bath Towels", Price: 12.50, InStock: true}

	reservation := templateReservation([]models.InventoryTemplateItem{
		{ProductID: towels.ID, Quantity: 6, Required: true, Product: &towels},
	}, []models.Cart{
		{Status: enums.CartStatusPending, Items: []models.CartItem{
			{ProductID: towels.ID, Quantity: 2},
		}},
		{Status: enums.CartStatusSuggested, Items: []models.CartItem{
			{ProductID: towels.ID, Quantity: 3},
		}},
	})

	store := &stubAgentStore{reservation: reservation, products: []models.Product{towels}}
	engine, _ := NewEngine(store, &stubAuditRecorder{})

	result, err := engine.Analyze(context.Background(), reservation.ID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(result.Gaps) != 1 || result.Gaps[0].GapQuantity != 1 {
		t.Fatalf("expected a single gap of 1 got %+v", result.Gaps)
	}
	if result.Gaps[0].ExistingQuantity != 5 {
		t.Fatalf("expected existing quantity 5 got %d", result.Gaps[0].ExistingQuantity)
	}
}

func TestAnalyzeOutOfStockGapsStayInDiagnostics(t *testing.T) {
	towels := models.Product{ID: uuid.New(), Name: "Bath Towels", Price: 12.50, InStock: true}
	robes := models.Product{ID: uuid.New(), Name: "Bathrobes", Price: 55, InStock: false}

	reservation := templateReservation([]models.InventoryTemplateItem{
		{ProductID: towels.ID, Quantity: 2, Required: true, Product: &towels},
		{ProductID: robes.ID, Quantity: 2, Required: true, Product: &robes},
	}, nil)

	store := &stubAgentStore{reservation: reservation, products: []models.Product{towels, robes}}
	audit := &stubAuditRecorder{}
	engine, _ := NewEngine(store, audit)

	result, err := engine.Analyze(context.Background(), reservation.ID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(result.Gaps) != 2 {
		t.Fatalf("expected both gaps in diagnostics got %d", len(result.Gaps))
	}
	if result.ItemsAdded != 1 {
		t.Fatalf("expected only in-stock item materialized got %d", result.ItemsAdded)
	}
	if len(store.createdCart.Items) != 1 || store.createdCart.Items[0].ProductID != towels.ID {
		t.Fatalf("unexpected cart items %+v", store.createdCart.Items)
	}
	if store.createdCart.TotalAmount != 25.0 {
		t.Fatalf("expected total 25.0 got %v", store.createdCart.TotalAmount)
	}

	var identified auditEntry
	for _, entry := range audit.entries {
		if entry.action == auditlog.ActionGapAnalysisGapsIdentified {
			identified = entry
		}
	}
	if identified.details["gapCount"] != 2 {
		t.Fatalf("expected gapCount 2 in audit details got %v", identified.details["gapCount"])
	}
}

func TestAnalyzeWithoutTemplateCreatesEmptyCart(t *testing.T) {
	reservation := &models.Reservation{
		ID:       uuid.New(),
		Property: &models.Property{ID: uuid.New()},
	}
	store := &stubAgentStore{reservation: reservation}
	audit := &stubAuditRecorder{}
	engine, _ := NewEngine(store, audit)

	result, err := engine.Analyze(context.Background(), reservation.ID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.CartID == uuid.Nil {
		t.Fatal("expected a cart id even without a template")
	}
	if len(result.Gaps) != 0 || result.ItemsAdded != 0 {
		t.Fatalf("expected empty result got %+v", result)
	}
	if store.createdCart.TotalAmount != 0 || len(store.createdCart.Items) != 0 {
		t.Fatalf("expected empty cart got %+v", store.createdCart)
	}

	actions := audit.actions()
	if len(actions) != 2 || actions[0] != auditlog.ActionGapAnalysisStarted || actions[1] != auditlog.ActionGapAnalysisSkipped {
		t.Fatalf("unexpected audit actions %v", actions)
	}
	if audit.entries[1].details["reason"] != skippedReasonNoTemplate {
		t.Fatalf("unexpected skip reason %v", audit.entries[1].details["reason"])
	}
}

func TestAnalyzeUnknownReservation(t *testing.T) {
	store := &stubAgentStore{}
	engine, _ := NewEngine(store, &stubAuditRecorder{})

	_, err := engine.Analyze(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error %v", err)
	}
	if store.createdCart != nil {
		t.Fatal("no cart should be created for a missing reservation")
	}
}

func TestAnalyzeMonetaryTotal(t *testing.T) {
	towels := models.Product{ID: uuid.New(), Name: "Bath Towels", Price: 8.99, InStock: true}
	sheets := models.Product{ID: uuid.New(), Name: "Sheets", Price: 45.00, InStock: true}

	reservation := templateReservation([]models.InventoryTemplateItem{
		{ProductID: towels.ID, Quantity: 2, Required: true, Product: &towels},
		{ProductID: sheets.ID, Quantity: 1, Required: true, Product: &sheets},
	}, nil)

	store := &stubAgentStore{reservation: reservation, products: []models.Product{towels, sheets}}
	engine, _ := NewEngine(store, &stubAuditRecorder{})

	if _, err := engine.Analyze(context.Background(), reservation.ID); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	got := store.createdCart.TotalAmount
	if diff := got - 62.98; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected total 62.98 got %v", got)
	}
}

func TestAnalyzeAuditOrdering(t *testing.T) {
	towels := models.Product{ID: uuid.New(), Name: "Bath Towels", Price: 12.50, InStock: true}
	reservation := templateReservation([]models.InventoryTemplateItem{
		{ProductID: towels.ID, Quantity: 3, Required: true, Product: &towels},
	}, nil)

	store := &stubAgentStore{reservation: reservation, products: []models.Product{towels}}
	audit := &stubAuditRecorder{}
	engine, _ := NewEngine(store, audit)

	if _, err := engine.Analyze(context.Background(), reservation.ID); err != nil {
		t.Fatalf("expected success got %v", err)
	}

	want := []string{
		auditlog.ActionGapAnalysisStarted,
		auditlog.ActionGapAnalysisGapsIdentified,
		auditlog.ActionGapAnalysisCartCreated,
	}
	actions := audit.actions()
	if len(actions) != len(want) {
		t.Fatalf("expected %d audit entries got %v", len(want), actions)
	}
	for i, action := range want {
		if actions[i] != action {
			t.Fatalf("expected %s at position %d got %v", action, i, actions)
		}
		if audit.entries[i].triggeredBy != auditlog.TriggeredByAgent {
			t.Fatalf("expected agent trigger got %s", audit.entries[i].triggeredBy)
		}
	}
}

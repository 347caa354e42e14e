package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staysupply/staysupply-backend/internal/auditlog"
	"github.com/staysupply/staysupply-backend/pkg/db/models"
	"github.com/staysupply/staysupply-backend/pkg/enums"
	pkgerrors "github.com/staysupply/staysupply-backend/pkg/errors"
	"github.com/staysupply/staysupply-backend/pkg/types"
)

// JobInventoryGapAnalysis is the single job name the agent worker recognizes.
const JobInventoryGapAnalysis = "inventory-gap-analysis"

const skippedReasonNoTemplate = "No inventory template found"

// Gap is one shortfall between a template's required quantity and what the
// reservation's carts already hold.
type Gap struct {
	ProductID        uuid.UUID `json:"productId"`
	ProductName      string    `json:"productName"`
	RequiredQuantity int       `json:"requiredQuantity"`
	ExistingQuantity int       `json:"existingQuantity"`
	GapQuantity      int       `json:"gapQuantity"`
}

// Result reports one analysis run. Gaps is the full pre-filter list; carts
// only materialize the in-stock subset, so ItemsAdded can be smaller than
// len(Gaps). CartID is always populated, even for a degenerate empty cart.
type Result struct {
	CartID     uuid.UUID `json:"cartId"`
	Gaps       []Gap     `json:"gaps"`
	ItemsAdded int       `json:"itemsAdded"`
}

// Store is the persistence surface the engine reads and writes through.
type Store interface {
	FindReservationForAnalysis(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	FindInStockProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	CreateCart(ctx context.Context, cart *models.Cart) error
}

// AuditRecorder appends workflow entries; every step of a run is recorded in
// a fixed order before the next store operation begins.
type AuditRecorder interface {
	Record(ctx context.Context, reservationID uuid.UUID, action string, details types.JSONMap, triggeredBy string) (*models.AgentAuditLog, error)
}

// Engine computes required-vs-existing supply gaps for a reservation and
// materializes a priced SUGGESTED cart. It holds no queue dependency so it
// can be exercised with a direct call.
type Engine struct {
	store Store
	audit AuditRecorder
}

// NewEngine builds the gap analysis engine.
func NewEngine(store Store, audit AuditRecorder) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("engine store is required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &Engine{store: store, audit: audit}, nil
}

// Analyze runs one gap analysis. Steps are strictly sequential; no error is
// swallowed, the caller's retry machinery decides what happens next. A
// failed run leaves no new cart behind.
func (e *Engine) Analyze(ctx context.Context, reservationID uuid.UUID) (*Result, error) {
	if _, err := e.audit.Record(ctx, reservationID, auditlog.ActionGapAnalysisStarted, types.JSONMap{
		"reservationId": reservationID.String(),
	}, auditlog.TriggeredByAgent); err != nil {
		return nil, err
	}

	reservation, err := e.store.FindReservationForAnalysis(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("reservation %s not found", reservationID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}

	template := templateOf(reservation)
	if template == nil || len(template.Items) == 0 {
		return e.createEmptyCart(ctx, reservationID)
	}

	existing := existingQuantities(reservation.Carts)

	gaps := make([]Gap, 0, len(template.Items))
	for _, item := range template.Items {
		if !item.Required {
			continue
		}
		have := existing[item.ProductID]
		shortfall := item.Quantity - have
		if shortfall <= 0 {
			continue
		}
		gaps = append(gaps, Gap{
			ProductID:        item.ProductID,
			ProductName:      productName(item.Product),
			RequiredQuantity: item.Quantity,
			ExistingQuantity: have,
			GapQuantity:      shortfall,
		})
	}

	// The pre-filter gap list is the diagnostic ground truth: it is recorded
	// before stock availability trims anything.
	if _, err := e.audit.Record(ctx, reservationID, auditlog.ActionGapAnalysisGapsIdentified, types.JSONMap{
		"gapCount": len(gaps),
		"gaps":     gaps,
	}, auditlog.TriggeredByAgent); err != nil {
		return nil, err
	}

	priceByProduct, err := e.lookupPrices(ctx, gaps)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products for gaps")
	}

	available := make([]Gap, 0, len(gaps))
	totalAmount := 0.0
	for _, gap := range gaps {
		price, inStock := priceByProduct[gap.ProductID]
		if !inStock {
			continue
		}
		available = append(available, gap)
		totalAmount += price * float64(gap.GapQuantity)
	}

	items := make([]models.CartItem, 0, len(available))
	for _, gap := range available {
		items = append(items, models.CartItem{
			ProductID: gap.ProductID,
			Quantity:  gap.GapQuantity,
			Price:     priceByProduct[gap.ProductID],
		})
	}

	cart := &models.Cart{
		ReservationID: reservationID,
		Status:        enums.CartStatusSuggested,
		SuggestedBy:   agentTag(),
		TotalAmount:   totalAmount,
		Items:         items,
	}
	if err := e.store.CreateCart(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create suggested cart")
	}

	if _, err := e.audit.Record(ctx, reservationID, auditlog.ActionGapAnalysisCartCreated, types.JSONMap{
		"cartId":      cart.ID.String(),
		"itemsAdded":  len(available),
		"totalAmount": totalAmount,
	}, auditlog.TriggeredByAgent); err != nil {
		return nil, err
	}

	return &Result{CartID: cart.ID, Gaps: gaps, ItemsAdded: len(available)}, nil
}

// createEmptyCart handles the degenerate no-template case: every triggered
// analysis yields a cart so callers can rely on CartID being set.
func (e *Engine) createEmptyCart(ctx context.Context, reservationID uuid.UUID) (*Result, error) {
	if _, err := e.audit.Record(ctx, reservationID, auditlog.ActionGapAnalysisSkipped, types.JSONMap{
		"reason": skippedReasonNoTemplate,
	}, auditlog.TriggeredByAgent); err != nil {
		return nil, err
	}

	cart := &models.Cart{
		ReservationID: reservationID,
		Status:        enums.CartStatusSuggested,
		SuggestedBy:   agentTag(),
		TotalAmount:   0,
	}
	if err := e.store.CreateCart(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create empty suggested cart")
	}
	return &Result{CartID: cart.ID, Gaps: []Gap{}, ItemsAdded: 0}, nil
}

func (e *Engine) lookupPrices(ctx context.Context, gaps []Gap) (map[uuid.UUID]float64, error) {
	if len(gaps) == 0 {
		return map[uuid.UUID]float64{}, nil
	}
	ids := make([]uuid.UUID, 0, len(gaps))
	for _, gap := range gaps {
		ids = append(ids, gap.ProductID)
	}
	products, err := e.store.FindInStockProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	prices := make(map[uuid.UUID]float64, len(products))
	for _, product := range products {
		prices[product.ID] = product.Price
	}
	return prices, nil
}

// existingQuantities tallies carted quantity per product across the loaded
// carts. The repository only loads PENDING/SUGGESTED/APPROVED carts, so
// rejected quantities never reduce a gap.
func existingQuantities(carts []models.Cart) map[uuid.UUID]int {
	existing := make(map[uuid.UUID]int)
	for _, cart := range carts {
		for _, item := range cart.Items {
			existing[item.ProductID] += item.Quantity
		}
	}
	return existing
}

func templateOf(reservation *models.Reservation) *models.InventoryTemplate {
	if reservation.Property == nil {
		return nil
	}
	return reservation.Property.Template
}

func productName(product *models.Product) string {
	if product == nil {
		return ""
	}
	return product.Name
}

func agentTag() *string {
	tag := auditlog.TriggeredByAgent
	return &tag
}

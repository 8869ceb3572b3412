package claims

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"mixerai/internal/domain"
	models "mixerai/internal/domain/models/claims"
)

// fakeBrandLinks implements repositories.BrandLinkRepository in memory and
// records how many queries each method served, so tests can assert the
// batched call shape as well as the verdicts.
type fakeBrandLinks struct {
	products    map[uuid.UUID]models.Product
	brands      map[uuid.UUID]models.MasterClaimBrand
	ingredients map[uuid.UUID][]uuid.UUID
	adminBrands map[uuid.UUID]map[uuid.UUID]bool // userID -> tenant brand -> admin

	failProducts    error
	failBrands      error
	failIngredients error
	failPermissions error

	productCalls    int
	brandCalls      int
	ingredientCalls int
	permissionCalls int
}

func newFakeBrandLinks() *fakeBrandLinks {
	return &fakeBrandLinks{
		products:    make(map[uuid.UUID]models.Product),
		brands:      make(map[uuid.UUID]models.MasterClaimBrand),
		ingredients: make(map[uuid.UUID][]uuid.UUID),
		adminBrands: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (f *fakeBrandLinks) addProduct(masterBrandID *uuid.UUID) uuid.UUID {
	id := uuid.New()
	f.products[id] = models.Product{ID: id, Name: "product-" + id.String()[:8], MasterBrandID: masterBrandID}
	return id
}

func (f *fakeBrandLinks) addMasterBrand(tenantBrandID *uuid.UUID) uuid.UUID {
	id := uuid.New()
	f.brands[id] = models.MasterClaimBrand{ID: id, Name: "brand-" + id.String()[:8], TenantBrandID: tenantBrandID}
	return id
}

func (f *fakeBrandLinks) grantAdmin(userID, tenantBrandID uuid.UUID) {
	if f.adminBrands[userID] == nil {
		f.adminBrands[userID] = make(map[uuid.UUID]bool)
	}
	f.adminBrands[userID][tenantBrandID] = true
}

func (f *fakeBrandLinks) GetProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	f.productCalls++
	if f.failProducts != nil {
		return nil, f.failProducts
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []models.Product{}
	for _, id := range ids {
		if product, ok := f.products[id]; ok {
			out = append(out, product)
		}
	}
	return out, nil
}

func (f *fakeBrandLinks) GetMasterBrands(ctx context.Context, ids []uuid.UUID) ([]models.MasterClaimBrand, error) {
	f.brandCalls++
	if f.failBrands != nil {
		return nil, f.failBrands
	}
	out := []models.MasterClaimBrand{}
	for _, id := range ids {
		if brand, ok := f.brands[id]; ok {
			out = append(out, brand)
		}
	}
	return out, nil
}

func (f *fakeBrandLinks) GetIngredientIDs(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	f.ingredientCalls++
	if f.failIngredients != nil {
		return nil, f.failIngredients
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID][]uuid.UUID)
	for _, id := range productIDs {
		if linked, ok := f.ingredients[id]; ok {
			out[id] = linked
		}
	}
	return out, nil
}

func (f *fakeBrandLinks) GetAdminBrandIDs(ctx context.Context, userID uuid.UUID, tenantBrandIDs []uuid.UUID) ([]uuid.UUID, error) {
	f.permissionCalls++
	if f.failPermissions != nil {
		return nil, f.failPermissions
	}
	out := []uuid.UUID{}
	for _, id := range tenantBrandIDs {
		if f.adminBrands[userID][id] {
			out = append(out, id)
		}
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func reasonCodes(verdict models.PermissionVerdict) []models.ReasonCode {
	out := make([]models.ReasonCode, 0, len(verdict.Reasons))
	for _, reason := range verdict.Reasons {
		out = append(out, reason.Code)
	}
	return out
}

func TestPermissionResolver_Granted(t *testing.T) {
	links := newFakeBrandLinks()
	userID := uuid.New()
	tenantBrand := uuid.New()
	masterBrand := links.addMasterBrand(&tenantBrand)
	product := links.addProduct(&masterBrand)
	links.grantAdmin(userID, tenantBrand)

	resolver := NewPermissionResolver(links, testLogger())

	verdict, err := resolver.CheckProductClaimsPermission(context.Background(), userID, []uuid.UUID{product})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verdict.Granted {
		t.Errorf("verdict not granted, reasons: %v", verdict.Reasons)
	}
	if len(verdict.Reasons) != 0 {
		t.Errorf("granted verdict carries %d reasons, want 0", len(verdict.Reasons))
	}
}

func TestPermissionResolver_ProductsNotFound(t *testing.T) {
	links := newFakeBrandLinks()
	userID := uuid.New()
	unknown := uuid.New()

	resolver := NewPermissionResolver(links, testLogger())

	verdict, err := resolver.CheckProductClaimsPermission(context.Background(), userID, []uuid.UUID{unknown})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Granted {
		t.Fatal("verdict granted for unknown product")
	}
	if len(verdict.Reasons) != 1 || verdict.Reasons[0].Code != models.ReasonProductsNotFound {
		t.Fatalf("reasons = %v, want one products_not_found", reasonCodes(verdict))
	}
	if len(verdict.Reasons[0].IDs) != 1 || verdict.Reasons[0].IDs[0] != unknown {
		t.Errorf("reason ids = %v, want [%s]", verdict.Reasons[0].IDs, unknown)
	}
}

func TestPermissionResolver_ProductMissingBrandLink(t *testing.T) {
	links := newFakeBrandLinks()
	userID := uuid.New()
	product := links.addProduct(nil)

	resolver := NewPermissionResolver(links, testLogger())

	verdict, err := resolver.CheckProductClaimsPermission(context.Background(), userID, []uuid.UUID{product})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Granted {
		t.Fatal("verdict granted for product without brand link")
	}
	if len(verdict.Reasons) != 1 || verdict.Reasons[0].Code != models.ReasonProductsMissingBrandLink {
		t.Fatalf("reasons = %v, want one products_missing_brand_link", reasonCodes(verdict))
	}
	// The chain is already broken; no brand or permission queries should run.
	if links.brandCalls != 0 || links.permissionCalls != 0 {
		t.Errorf("brand/permission queries ran (%d/%d) after product-stage failure",
			links.brandCalls, links.permissionCalls)
	}
}

func TestPermissionResolver_BrandMissingTenantMapping(t *testing.T) {
	links := newFakeBrandLinks()
	userID := uuid.New()
	masterBrand := links.addMasterBrand(nil) // unlinked
	product := links.addProduct(&masterBrand)

	// The user is an admin of some other brand; it must not help.
	otherBrand := uuid.New()
	links.grantAdmin(userID, otherBrand)

	resolver := NewPermissionResolver(links, testLogger())

	verdict, err := resolver.CheckProductClaimsPermission(context.Background(), userID, []uuid.UUID{product})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Granted {
		t.Fatal("verdict granted through an unlinked master brand")
	}
	if len(verdict.Reasons) != 1 || verdict.Reasons[0].Code != models.ReasonBrandsMissingTenantMapping {
		t.Fatalf("reasons = %v, want one brands_missing_tenant_mapping", reasonCodes(verdict))
	}
}

func TestPermissionResolver_InsufficientPermissions(t *testing.T) {
	links := newFakeBrandLinks()
	userID := uuid.New()
	grantedTenant := uuid.New()
	otherTenant := uuid.New()

	grantedBrand := links.addMasterBrand(&grantedTenant)
	otherMaster := links.addMasterBrand(&otherTenant)
	grantedProduct := links.addProduct(&grantedBrand)
	deniedProduct := links.addProduct(&otherMaster)

	links.grantAdmin(userID, grantedTenant) // admin of B1, product maps to B2 as well

	resolver := NewPermissionResolver(links, testLogger())

	verdict, err := resolver.CheckProductClaimsPermission(context.Background(), userID, []uuid.UUID{grantedProduct, deniedProduct})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Granted {
		t.Fatal("verdict granted without covering every tenant brand")
	}
	if len(verdict.Reasons) != 1 || verdict.Reasons[0].Code != models.ReasonInsufficientBrandPermissions {
		t.Fatalf("reasons = %v, want one insufficient_brand_permissions", reasonCodes(verdict))
	}
	if len(verdict.Reasons[0].IDs) != 1 || verdict.Reasons[0].IDs[0] != otherTenant {
		t.Errorf("reason ids = %v, want [%s]", verdict.Reasons[0].IDs, otherTenant)
	}
}

// All-or-nothing: a verdict over [p1, p2] is granted iff it is granted for
// [p1] and [p2] independently.
func TestPermissionResolver_AllOrNothing(t *testing.T) {
	links := newFakeBrandLinks()
	userID := uuid.New()
	tenant1 := uuid.New()
	tenant2 := uuid.New()
	master1 := links.addMasterBrand(&tenant1)
	master2 := links.addMasterBrand(&tenant2)
	product1 := links.addProduct(&master1)
	product2 := links.addProduct(&master2)
	links.grantAdmin(userID, tenant1) // only tenant1

	resolver := NewPermissionResolver(links, testLogger())
	ctx := context.Background()

	single1, err := resolver.CheckProductClaimsPermission(ctx, userID, []uuid.UUID{product1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	single2, err := resolver.CheckProductClaimsPermission(ctx, userID, []uuid.UUID{product2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	combined, err := resolver.CheckProductClaimsPermission(ctx, userID, []uuid.UUID{product1, product2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := single1.Granted && single2.Granted; combined.Granted != want {
		t.Errorf("combined = %v, want %v (singles: %v, %v)",
			combined.Granted, want, single1.Granted, single2.Granted)
	}
	if combined.Granted {
		t.Error("combined verdict granted while one product's tenant is uncovered")
	}
}

func TestPermissionResolver_BatchedCallShape(t *testing.T) {
	links := newFakeBrandLinks()
	userID := uuid.New()
	tenantBrand := uuid.New()
	masterBrand := links.addMasterBrand(&tenantBrand)
	links.grantAdmin(userID, tenantBrand)

	// Many products, one brand: still exactly one query per stage.
	productIDs := make([]uuid.UUID, 0, 50)
	for i := 0; i < 50; i++ {
		productIDs = append(productIDs, links.addProduct(&masterBrand))
	}

	resolver := NewPermissionResolver(links, testLogger())

	verdict, err := resolver.CheckProductClaimsPermission(context.Background(), userID, productIDs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verdict.Granted {
		t.Fatalf("verdict not granted, reasons: %v", verdict.Reasons)
	}
	if links.productCalls != 1 || links.brandCalls != 1 || links.permissionCalls != 1 {
		t.Errorf("query counts = products %d, brands %d, permissions %d; want 1 each",
			links.productCalls, links.brandCalls, links.permissionCalls)
	}
}

func TestPermissionResolver_InputValidation(t *testing.T) {
	resolver := NewPermissionResolver(newFakeBrandLinks(), testLogger())
	ctx := context.Background()

	if _, err := resolver.CheckProductClaimsPermission(ctx, uuid.Nil, []uuid.UUID{uuid.New()}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("nil user id: error = %v, want ErrValidation", err)
	}
	if _, err := resolver.CheckProductClaimsPermission(ctx, uuid.New(), nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty product ids: error = %v, want ErrValidation", err)
	}
}

func TestPermissionResolver_StoreFailurePropagates(t *testing.T) {
	links := newFakeBrandLinks()
	links.failProducts = &domain.DataUnavailableError{Op: "fetch products", Err: errors.New("connection refused")}

	resolver := NewPermissionResolver(links, testLogger())

	_, err := resolver.CheckProductClaimsPermission(context.Background(), uuid.New(), []uuid.UUID{uuid.New()})
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Errorf("error = %v, want ErrDataUnavailable", err)
	}
}

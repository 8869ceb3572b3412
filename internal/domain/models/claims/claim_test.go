package claims

import (
	"testing"

	"github.com/google/uuid"
)

func TestClaim_Validate(t *testing.T) {
	brandID := uuid.New()
	productID := uuid.New()

	tests := []struct {
		name    string
		claim   Claim
		wantErr bool
	}{
		{
			name: "valid brand claim",
			claim: Claim{
				ID:            uuid.New(),
				Text:          "Low fat",
				Type:          TypeMandatory,
				Level:         LevelBrand,
				Country:       CountryGlobal,
				MasterBrandID: &brandID,
			},
			wantErr: false,
		},
		{
			name: "valid product claim in a market",
			claim: Claim{
				ID:        uuid.New(),
				Text:      "High in fibre",
				Type:      TypeAllowed,
				Level:     LevelProduct,
				Country:   Market("US"),
				ProductID: &productID,
			},
			wantErr: false,
		},
		{
			name: "owner does not match level",
			claim: Claim{
				ID:        uuid.New(),
				Text:      "Low fat",
				Type:      TypeAllowed,
				Level:     LevelBrand,
				Country:   CountryGlobal,
				ProductID: &productID,
			},
			wantErr: true,
		},
		{
			name: "two owners populated",
			claim: Claim{
				ID:            uuid.New(),
				Text:          "Low fat",
				Type:          TypeAllowed,
				Level:         LevelBrand,
				Country:       CountryGlobal,
				MasterBrandID: &brandID,
				ProductID:     &productID,
			},
			wantErr: true,
		},
		{
			name: "no owner populated",
			claim: Claim{
				ID:      uuid.New(),
				Text:    "Low fat",
				Type:    TypeAllowed,
				Level:   LevelBrand,
				Country: CountryGlobal,
			},
			wantErr: true,
		},
		{
			name: "unknown type",
			claim: Claim{
				ID:            uuid.New(),
				Text:          "Low fat",
				Type:          ClaimType("recommended"),
				Level:         LevelBrand,
				Country:       CountryGlobal,
				MasterBrandID: &brandID,
			},
			wantErr: true,
		},
		{
			name: "unknown level",
			claim: Claim{
				ID:            uuid.New(),
				Text:          "Low fat",
				Type:          TypeAllowed,
				Level:         ClaimLevel("agency"),
				Country:       CountryGlobal,
				MasterBrandID: &brandID,
			},
			wantErr: true,
		},
		{
			name: "country left as the no-filter zero value",
			claim: Claim{
				ID:            uuid.New(),
				Text:          "Low fat",
				Type:          TypeAllowed,
				Level:         LevelBrand,
				Country:       AllMarkets,
				MasterBrandID: &brandID,
			},
			wantErr: true,
		},
		{
			name: "empty text",
			claim: Claim{
				ID:            uuid.New(),
				Type:          TypeAllowed,
				Level:         LevelBrand,
				Country:       CountryGlobal,
				MasterBrandID: &brandID,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.claim.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClaim_OwnerID(t *testing.T) {
	ingredientID := uuid.New()
	claim := Claim{
		Level:        LevelIngredient,
		IngredientID: &ingredientID,
	}

	owner, ok := claim.OwnerID()
	if !ok {
		t.Fatal("OwnerID() ok = false, want true")
	}
	if owner != ingredientID {
		t.Errorf("OwnerID() = %s, want %s", owner, ingredientID)
	}

	mismatched := Claim{Level: LevelBrand, IngredientID: &ingredientID}
	if _, ok := mismatched.OwnerID(); ok {
		t.Error("OwnerID() ok = true for mismatched owner, want false")
	}
}

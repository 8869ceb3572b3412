package claims

import (
	"encoding/json"
	"testing"
)

func TestCountry_Classification(t *testing.T) {
	tests := []struct {
		name       string
		country    Country
		allMarkets bool
		global     bool
		market     bool
	}{
		{"zero value is all markets", AllMarkets, true, false, false},
		{"global sentinel", CountryGlobal, false, true, false},
		{"concrete market", Market("US"), false, false, true},
		{"sentinel via code mapping", CountryFromCode(GlobalCountryCode), false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.country.IsAllMarkets(); got != tt.allMarkets {
				t.Errorf("IsAllMarkets() = %v, want %v", got, tt.allMarkets)
			}
			if got := tt.country.IsGlobal(); got != tt.global {
				t.Errorf("IsGlobal() = %v, want %v", got, tt.global)
			}
			if got := tt.country.IsMarket(); got != tt.market {
				t.Errorf("IsMarket() = %v, want %v", got, tt.market)
			}
		})
	}
}

func TestCountry_InForce(t *testing.T) {
	tests := []struct {
		name   string
		row    Country
		target Country
		want   bool
	}{
		{"global row in any market", CountryGlobal, Market("US"), true},
		{"matching market", Market("US"), Market("US"), true},
		{"other market", Market("GB"), Market("US"), false},
		{"all markets keeps everything", Market("GB"), AllMarkets, true},
		{"global row for global target", CountryGlobal, CountryGlobal, true},
		{"market row for global target", Market("US"), CountryGlobal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.row.InForce(tt.target); got != tt.want {
				t.Errorf("InForce(%s, %s) = %v, want %v", tt.row, tt.target, got, tt.want)
			}
		})
	}
}

func TestCountry_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		country Country
		encoded string
	}{
		{"all markets encodes as null", AllMarkets, `null`},
		{"global sentinel keeps its code", CountryGlobal, `"__GLOBAL__"`},
		{"market code", Market("DE"), `"DE"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.country)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(raw) != tt.encoded {
				t.Errorf("Marshal() = %s, want %s", raw, tt.encoded)
			}

			var decoded Country
			if err := json.Unmarshal(raw, &decoded); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if decoded != tt.country {
				t.Errorf("round trip = %v, want %v", decoded, tt.country)
			}
		})
	}
}

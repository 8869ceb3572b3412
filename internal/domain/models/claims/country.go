package claims

import "encoding/json"

// GlobalCountryCode is the sentinel stored on claim rows that apply in every
// market unless a market-specific claim with identical text overrides them.
const GlobalCountryCode = "__GLOBAL__"

// Country is a market filter that keeps "no filter at all" and "the global
// sentinel row" as distinct, non-confusable values. The zero value means
// AllMarkets (no filter); CountryGlobal means the stored sentinel; anything
// else is a concrete market code such as "US" or "GB".
type Country struct {
	code string
}

// AllMarkets is the zero Country: no market filter, return every row.
var AllMarkets = Country{}

// CountryGlobal is the global sentinel as a Country value.
var CountryGlobal = Country{code: GlobalCountryCode}

// Market returns the Country for a concrete market code.
// An empty code yields AllMarkets, which callers should treat as invalid
// input for claim rows (rows always carry a concrete market or the sentinel).
func Market(code string) Country {
	return Country{code: code}
}

// CountryFromCode maps a stored country_code column value to a Country.
func CountryFromCode(code string) Country {
	return Country{code: code}
}

// IsAllMarkets reports whether this value means "no market filter".
func (c Country) IsAllMarkets() bool { return c.code == "" }

// IsGlobal reports whether this is the stored global sentinel.
func (c Country) IsGlobal() bool { return c.code == GlobalCountryCode }

// IsMarket reports whether this is a concrete market code.
func (c Country) IsMarket() bool { return c.code != "" && c.code != GlobalCountryCode }

// Code returns the stored representation ("" for AllMarkets).
func (c Country) Code() string { return c.code }

func (c Country) String() string {
	switch {
	case c.IsAllMarkets():
		return "all-markets"
	case c.IsGlobal():
		return "global"
	default:
		return c.code
	}
}

// MarshalJSON serializes the stored code; AllMarkets serializes as null.
func (c Country) MarshalJSON() ([]byte, error) {
	if c.IsAllMarkets() {
		return []byte("null"), nil
	}
	return json.Marshal(c.code)
}

// UnmarshalJSON accepts null (AllMarkets) or a code string.
func (c *Country) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = AllMarkets
		return nil
	}
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}
	*c = CountryFromCode(code)
	return nil
}

// InForce reports whether a claim row scoped to this Country applies when
// resolving for the target market. Global rows are in force everywhere;
// market rows only in their own market. Precedence between a global row and
// a market row with the same text is handled by the resolver, not here.
func (c Country) InForce(target Country) bool {
	if target.IsAllMarkets() {
		return true
	}
	return c.IsGlobal() || c == target
}

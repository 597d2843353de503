package factory

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

// Legacy rule tables are split over three XML files.
const (
	XMLRulesFile      = "TaxDeductionRules.xml"
	XMLLocationsFile  = "LocationCurrencyMap.xml"
	XMLCurrenciesFile = "CurrencySymbolMap.xml"
)

// =============================================================================
// XML SCHEMA TYPES
// =============================================================================

// <TaxDeductionRules><Location name="Ireland"><TaxDeductions><Deduction .../></TaxDeductions></Location></TaxDeductionRules>
type xmlRules struct {
	Locations []xmlRuleLocation `xml:"Location"`
}

type xmlRuleLocation struct {
	Name          string `xml:"name,attr"`
	TaxDeductions struct {
		// Element names inside TaxDeductions are not significant.
		Items []xmlDeduction `xml:",any"`
	} `xml:"TaxDeductions"`
}

type xmlDeduction struct {
	Name              string `xml:"name,attr"`
	Type              string `xml:"type,attr"`
	RatePercent       string `xml:"ratePercent,attr"`
	BasicRatePercent  string `xml:"basicRatePercent,attr"`
	HigherRatePercent string `xml:"higherRatePercent,attr"`
	Threshold         string `xml:"threshold,attr"`
}

// <Locations><Location name="Ireland" currency="Eur"/></Locations>
type xmlLocationMap struct {
	Locations []struct {
		Name     string `xml:"name,attr"`
		Currency string `xml:"currency,attr"`
	} `xml:"Location"`
}

// <Currencies><Currency name="Eur" symbol="€"/></Currencies>
type xmlCurrencyMap struct {
	Currencies []struct {
		Name   string `xml:"name,attr"`
		Symbol string `xml:"symbol,attr"`
	} `xml:"Currency"`
}

// ParseXML reads the legacy three-file layout. Only locations listed in the
// rules file are read; entries found only in the location map are ignored.
// A location with rules but no currency mapping fails validation of the
// whole book rather than just lookups for that location.
func (f *RuleFactory) ParseXML(rules, locations, currencies io.Reader) (*payroll.RuleBook, error) {
	var rx xmlRules
	if err := xml.NewDecoder(rules).Decode(&rx); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", XMLRulesFile, err)
	}
	var lx xmlLocationMap
	if err := xml.NewDecoder(locations).Decode(&lx); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", XMLLocationsFile, err)
	}
	var cx xmlCurrencyMap
	if err := xml.NewDecoder(currencies).Decode(&cx); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", XMLCurrenciesFile, err)
	}

	doc := RuleBookJSON{}
	for _, c := range cx.Currencies {
		doc.Currencies = append(doc.Currencies, CurrencyJSON{Name: c.Name, Symbol: c.Symbol})
	}

	currencyOf := make(map[string]string, len(lx.Locations))
	for _, l := range lx.Locations {
		currencyOf[l.Name] = l.Currency
	}

	for _, rl := range rx.Locations {
		lj := LocationJSON{Name: rl.Name, Currency: currencyOf[rl.Name]}
		for _, d := range rl.TaxDeductions.Items {
			dj, err := d.toJSON()
			if err != nil {
				return nil, fmt.Errorf("location %q: %w", rl.Name, err)
			}
			lj.Deductions = append(lj.Deductions, dj)
		}
		doc.Locations = append(doc.Locations, lj)
	}

	return f.FromJSON(doc)
}

func (d xmlDeduction) toJSON() (DeductionJSON, error) {
	dj := DeductionJSON{Name: d.Name, Type: d.Type}
	fields := []struct {
		attr string
		raw  string
		dst  **decimal.Decimal
	}{
		{"ratePercent", d.RatePercent, &dj.RatePercent},
		{"basicRatePercent", d.BasicRatePercent, &dj.BasicRatePercent},
		{"higherRatePercent", d.HigherRatePercent, &dj.HigherRatePercent},
		{"threshold", d.Threshold, &dj.Threshold},
	}
	for _, fld := range fields {
		raw := strings.TrimSpace(fld.raw)
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return DeductionJSON{}, fmt.Errorf("deduction %q: invalid %s %q: %w", d.Name, fld.attr, raw, err)
		}
		*fld.dst = &v
	}
	return dj, nil
}

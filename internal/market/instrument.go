package market

import (
	"errors"
	"fmt"
	"strings"
)

const (
	defaultMarketConstant             = "USD"
	defaultArticleLimitConstant       = 3
	defaultSortOrderConstant          = "publishedAt"
	instrumentKindStockConstant       = "stock"
	instrumentKindCryptoConstant      = "crypto"
	unsupportedKindTemplateConstant   = "unsupported instrument kind %q for %s"
	negativeThresholdTemplateConstant = "threshold for %s must not be negative"
	missingSymbolErrorMessageConstant = "instrument symbol must be provided"
)

// InstrumentKind distinguishes equities from digital currencies.
type InstrumentKind string

// Supported instrument kinds.
const (
	InstrumentKindStock  InstrumentKind = InstrumentKind(instrumentKindStockConstant)
	InstrumentKindCrypto InstrumentKind = InstrumentKind(instrumentKindCryptoConstant)
)

// ErrMissingSymbol indicates an instrument without a ticker symbol.
var ErrMissingSymbol = errors.New(missingSymbolErrorMessageConstant)

// Instrument describes one watched ticker and its alert policy.
type Instrument struct {
	Symbol           string         `mapstructure:"symbol"`
	Kind             InstrumentKind `mapstructure:"kind"`
	Market           string         `mapstructure:"market"`
	CompanyName      string         `mapstructure:"company_name"`
	ThresholdPercent float64        `mapstructure:"threshold_percent"`
	NewsInTitleOnly  bool           `mapstructure:"news_in_title_only"`
	NewsSortOrder    string         `mapstructure:"news_sort_order"`
	NewsLanguage     string         `mapstructure:"news_language"`
	ArticleLimit     int            `mapstructure:"article_limit"`
}

// Normalize applies defaults and validates the instrument.
func (instrument Instrument) Normalize() (Instrument, error) {
	normalized := instrument
	normalized.Symbol = strings.ToUpper(strings.TrimSpace(instrument.Symbol))
	if len(normalized.Symbol) == 0 {
		return Instrument{}, ErrMissingSymbol
	}

	normalized.Kind = InstrumentKind(strings.ToLower(strings.TrimSpace(string(instrument.Kind))))
	switch normalized.Kind {
	case "":
		normalized.Kind = InstrumentKindStock
	case InstrumentKindStock, InstrumentKindCrypto:
	default:
		return Instrument{}, fmt.Errorf(unsupportedKindTemplateConstant, instrument.Kind, normalized.Symbol)
	}

	if normalized.ThresholdPercent < 0 {
		return Instrument{}, fmt.Errorf(negativeThresholdTemplateConstant, normalized.Symbol)
	}

	normalized.Market = strings.ToUpper(strings.TrimSpace(instrument.Market))
	if len(normalized.Market) == 0 {
		normalized.Market = defaultMarketConstant
	}
	normalized.CompanyName = strings.TrimSpace(instrument.CompanyName)
	if len(normalized.CompanyName) == 0 {
		normalized.CompanyName = normalized.Symbol
	}
	normalized.NewsSortOrder = strings.TrimSpace(instrument.NewsSortOrder)
	if len(normalized.NewsSortOrder) == 0 {
		normalized.NewsSortOrder = defaultSortOrderConstant
	}
	normalized.NewsLanguage = strings.TrimSpace(instrument.NewsLanguage)
	if normalized.ArticleLimit <= 0 {
		normalized.ArticleLimit = defaultArticleLimitConstant
	}
	return normalized, nil
}

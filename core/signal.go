package core

// NotApplicable is the placeholder rendered for optional signal fields that
// carry no value (e.g. price levels on prediction markets). Ingestion also
// accepts it verbatim, so round-tripping a signal keeps the layout stable.
const NotApplicable = "not applicable"

// Market identifies the venue class a signal belongs to
type Market string

// Known markets
const (
	MarketForex      Market = "forex"
	MarketCrypto     Market = "crypto"
	MarketStocks     Market = "stocks"
	MarketMemecoins  Market = "memecoins"
	MarketPrediction Market = "prediction-market"
)

// Markets lists every known market in a fixed order, used to build default
// preference sets and settings menus
func Markets() []Market {
	return []Market{MarketForex, MarketCrypto, MarketStocks, MarketMemecoins, MarketPrediction}
}

// Valid reports whether the market is one of the known values
func (m Market) Valid() bool {
	switch m {
	case MarketForex, MarketCrypto, MarketStocks, MarketMemecoins, MarketPrediction:
		return true
	}
	return false
}

// Direction is the trade side of a signal. Prediction markets use yes/no
// instead of buy/sell.
type Direction string

// Available directions
const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
	DirectionYes  Direction = "yes"
	DirectionNo   Direction = "no"
)

// Valid reports whether the direction is one of the known values
func (d Direction) Valid() bool {
	switch d {
	case DirectionBuy, DirectionSell, DirectionYes, DirectionNo:
		return true
	}
	return false
}

// StructuralTags describes the technical-analysis features present on a
// signal. The strategy filter admits a signal when at least one tag is set.
type StructuralTags struct {
	Liquidity    bool `json:"liquidity"`
	OrderBlock   bool `json:"order_block"`
	FairValueGap bool `json:"fvg"`
}

// Any reports whether at least one structural tag is present
func (t StructuralTags) Any() bool {
	return t.Liquidity || t.OrderBlock || t.FairValueGap
}

// Signal is a structured trade notification. It is immutable once created;
// the ID is assigned exactly once at ingestion.
type Signal struct {
	ID          int64          `json:"id"`
	Symbol      string         `json:"symbol"`
	Market      Market         `json:"market"`
	Direction   Direction      `json:"direction"`
	Timeframe   string         `json:"timeframe"`
	Entry       string         `json:"entry"`
	Stop        string         `json:"stop"`
	Target      string         `json:"target"`
	Description string         `json:"description"`
	Tags        StructuralTags `json:"tags"`
}

// Validate checks the signal for structural completeness. It does not judge
// market-data correctness, only that required fields are present and the
// enumerated fields carry known values.
func (s Signal) Validate() error {
	if s.Symbol == "" {
		return &ValidationError{Field: "symbol", Reason: "must not be empty"}
	}
	if !s.Market.Valid() {
		return &ValidationError{Field: "market", Reason: "unknown market " + string(s.Market)}
	}
	if !s.Direction.Valid() {
		return &ValidationError{Field: "direction", Reason: "unknown direction " + string(s.Direction)}
	}
	return nil
}

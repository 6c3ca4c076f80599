// Package market provides the domain model for tokens, exchanges and
// trading pairs on the Metis chain.
package market

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Token represents a token on the blockchain.
type Token struct {
	// Symbol is the ticker symbol (e.g. WETH)
	Symbol string

	// Name is the human-readable token name
	Name string

	// Decimals is the on-chain decimal precision
	Decimals uint8

	// Address is the on-chain contract address
	Address string
}

// NewToken creates a new Token.
func NewToken(symbol, name string, decimals uint8, address string) Token {
	return Token{
		Symbol:   symbol,
		Name:     name,
		Decimals: decimals,
		Address:  address,
	}
}

// String returns the token's symbol.
func (t Token) String() string {
	return t.Symbol
}

// Exchange represents a decentralized exchange on one chain.
type Exchange struct {
	// Name is the exchange identifier (e.g. netswap)
	Name string

	// Chain is the chain the exchange runs on
	Chain string

	// RouterAddress is the router or pair contract address
	RouterAddress string
}

// NewExchange creates a new Exchange.
func NewExchange(name, chain, routerAddress string) Exchange {
	return Exchange{
		Name:          name,
		Chain:         chain,
		RouterAddress: routerAddress,
	}
}

// String returns "name (chain)".
func (e Exchange) String() string {
	return fmt.Sprintf("%s (%s)", e.Name, e.Chain)
}

// TradingPair represents a base/quote listing on one specific exchange.
type TradingPair struct {
	Base     Token
	Quote    Token
	Exchange Exchange

	// Price is the quoted price of the base token (USD preferred)
	Price decimal.Decimal

	// LiquidityUSD is the pooled liquidity in USD
	LiquidityUSD decimal.Decimal

	// ReserveBase and ReserveQuote are the pool reserves in token units
	ReserveBase  decimal.Decimal
	ReserveQuote decimal.Decimal
}

// NewTradingPair creates a new TradingPair.
func NewTradingPair(base, quote Token, exchange Exchange, price, liquidityUSD, reserveBase, reserveQuote decimal.Decimal) TradingPair {
	return TradingPair{
		Base:         base,
		Quote:        quote,
		Exchange:     exchange,
		Price:        price,
		LiquidityUSD: liquidityUSD,
		ReserveBase:  reserveBase,
		ReserveQuote: reserveQuote,
	}
}

// PairID returns the pair identifier (e.g. "WETH/USDC").
func (p TradingPair) PairID() string {
	return fmt.Sprintf("%s/%s", p.Base.Symbol, p.Quote.Symbol)
}

// FullID returns the identifier including the exchange (e.g. "netswap:WETH/USDC").
func (p TradingPair) FullID() string {
	return fmt.Sprintf("%s:%s/%s", p.Exchange.Name, p.Base.Symbol, p.Quote.Symbol)
}

// String returns "BASE/QUOTE on exchange @ price".
func (p TradingPair) String() string {
	return fmt.Sprintf("%s/%s on %s @ %s",
		p.Base.Symbol, p.Quote.Symbol, p.Exchange.Name, p.Price)
}

// ArbitrageLeg is a single trade within an arbitrage route.
// Reserved for multi-hop execution; the current scanner does not populate it.
type ArbitrageLeg struct {
	From         Token
	To           Token
	Exchange     Exchange
	Price        decimal.Decimal
	LiquidityUSD decimal.Decimal
}

// ArbitrageRoute is a sequence of legs forming a complete route.
type ArbitrageRoute struct {
	Legs      []ArbitrageLeg
	TotalHops int
}

// NewArbitrageRoute creates a route from its legs.
func NewArbitrageRoute(legs []ArbitrageLeg) ArbitrageRoute {
	return ArbitrageRoute{
		Legs:      legs,
		TotalHops: len(legs),
	}
}

// FormatPath renders the route as "USDC -> WETH -> METIS -> USDC".
func (r ArbitrageRoute) FormatPath() string {
	if len(r.Legs) == 0 {
		return ""
	}

	path := r.Legs[0].From.Symbol
	for _, leg := range r.Legs {
		path += " -> " + leg.To.Symbol
	}
	return path
}

// ArbitrageOpportunity is a fully-sized opportunity along a route.
// Model fields for future execution phases; detection only emits spreads.
type ArbitrageOpportunity struct {
	Route        ArbitrageRoute
	InputAmount  decimal.Decimal
	OutputAmount decimal.Decimal
	GrossProfit  decimal.Decimal
	NetProfit    decimal.Decimal
	GasCost      decimal.Decimal
	ProfitPct    decimal.Decimal
	Timestamp    time.Time
}

// NewArbitrageOpportunity creates an opportunity and derives its profit percentage.
func NewArbitrageOpportunity(route ArbitrageRoute, input, output, gross, net, gasCost decimal.Decimal) ArbitrageOpportunity {
	profitPct := decimal.Zero
	if input.IsPositive() {
		profitPct = net.Div(input).Mul(decimal.NewFromInt(100))
	}

	return ArbitrageOpportunity{
		Route:        route,
		InputAmount:  input,
		OutputAmount: output,
		GrossProfit:  gross,
		NetProfit:    net,
		GasCost:      gasCost,
		ProfitPct:    profitPct,
		Timestamp:    time.Now(),
	}
}

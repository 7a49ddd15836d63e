package gateway

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LogGateway implements usecase.TokenGateway by logging every transfer
// instead of executing it. Used in development, where no custody service
// is reachable.
type LogGateway struct {
	logger zerolog.Logger
}

// NewLogGateway creates a log-only gateway.
func NewLogGateway(logger zerolog.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

// Transfer logs the transfer and reports success.
func (g *LogGateway) Transfer(ctx context.Context, destination string, amount decimal.Decimal) error {
	g.logger.Info().
		Str("destination", destination).
		Str("amount", amount.String()).
		Msg("dry-run transfer")
	return nil
}

// TransferToken logs the token transfer and reports success.
func (g *LogGateway) TransferToken(ctx context.Context, token, destination string, amount decimal.Decimal) error {
	g.logger.Info().
		Str("token", token).
		Str("destination", destination).
		Str("amount", amount.String()).
		Msg("dry-run token transfer")
	return nil
}

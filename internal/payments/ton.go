package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const demoDepositAddress = "EQD4FPq3nBQtikBQNB8loZuFq3Ss-OFhcqVjyZyoXrYxeGiE"

// TONGateway is a demo-mode TON client: it hands out a fixed deposit
// address and reports every transaction as successful. A real network
// client replaces it behind the Gateway interface.
type TONGateway struct {
	network string
	log     *zap.Logger
}

func NewTONGateway(network string, log *zap.Logger) *TONGateway {
	return &TONGateway{
		network: network,
		log:     log.With(zap.String("gateway", "ton"), zap.String("network", network)),
	}
}

func (g *TONGateway) GetDepositAddress(ctx context.Context, bookingID uuid.UUID) (string, error) {
	g.log.Debug("Issuing deposit address", zap.String("booking_id", bookingID.String()))
	return demoDepositAddress, nil
}

func (g *TONGateway) VerifyTransaction(ctx context.Context, txHash string) (*Verification, error) {
	g.log.Debug("Verifying transaction", zap.String("tx_hash", txHash))

	return &Verification{
		Status: VerificationSuccess,
		Details: map[string]string{
			"hash":      txHash,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

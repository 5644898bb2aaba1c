package payments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestTONGatewayDepositAddressIsStable(t *testing.T) {
	gateway := NewTONGateway("testnet", zap.NewNop())

	first, err := gateway.GetDepositAddress(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("GetDepositAddress: %v", err)
	}
	second, err := gateway.GetDepositAddress(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("GetDepositAddress: %v", err)
	}

	if first == "" {
		t.Fatal("expected a non-empty address")
	}
	if first != second {
		t.Errorf("demo gateway should hand out one shared address, got %q and %q", first, second)
	}
}

func TestTONGatewayVerifyAlwaysSucceeds(t *testing.T) {
	gateway := NewTONGateway("testnet", zap.NewNop())

	verification, err := gateway.VerifyTransaction(context.Background(), "any-hash")
	if err != nil {
		t.Fatalf("VerifyTransaction: %v", err)
	}
	if verification.Status != VerificationSuccess {
		t.Errorf("status = %s, want success", verification.Status)
	}
}

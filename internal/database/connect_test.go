package database

import "testing"

// mongo.Connect does not dial, so idempotency is observable without a live
// server: the second call must hand back the already-established client.
func TestConnectIsIdempotent(t *testing.T) {
	first, err := Connect("mongodb://localhost:27017")
	if err != nil {
		t.Fatalf("first Connect returned error: %v", err)
	}
	if first == nil {
		t.Fatal("first Connect returned nil client")
	}

	second, err := Connect("mongodb://other-host:27017")
	if err != nil {
		t.Fatalf("second Connect returned error: %v", err)
	}
	if second != first {
		t.Fatal("expected second Connect to be a no-op returning the same client")
	}
}

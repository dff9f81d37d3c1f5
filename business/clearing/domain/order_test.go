package domain

import (
	"math/big"
	"strings"
	"testing"
)

const validOrderJSON = `[
  {
    "owner": "0x1111111111111111111111111111111111111111",
    "handleIO": false,
    "evaluable": {
      "interpreter": "0x2222222222222222222222222222222222222222",
      "store": "0x3333333333333333333333333333333333333333",
      "expression": "0x4444444444444444444444444444444444444444"
    },
    "validInputs": [
      {"token": "0x5555555555555555555555555555555555555555", "decimals": 18, "vaultId": "0x01"}
    ],
    "validOutputs": [
      {"token": "0x6666666666666666666666666666666666666666", "decimals": 6, "vaultId": "42"}
    ]
  }
]`

func TestParseOrders(t *testing.T) {
	orders, err := ParseOrders([]byte(validOrderJSON))
	if err != nil {
		t.Fatalf("ParseOrders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1", len(orders))
	}

	order := orders[0]
	if got := order.Owner.Hex(); got != "0x1111111111111111111111111111111111111111" {
		t.Errorf("owner = %s", got)
	}
	if order.HandleIO {
		t.Error("handleIO should be false")
	}
	// hex vault id
	if order.Input().VaultID.Cmp(big.NewInt(1)) != 0 {
		t.Errorf("input vault id = %s, want 1", order.Input().VaultID)
	}
	// decimal vault id
	if order.Output().VaultID.Cmp(big.NewInt(42)) != 0 {
		t.Errorf("output vault id = %s, want 42", order.Output().VaultID)
	}
	if order.Output().Decimals != 6 {
		t.Errorf("output decimals = %d, want 6", order.Output().Decimals)
	}
}

func TestParseOrdersRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
	}{
		{
			name:   "not_json",
			mutate: func(s string) string { return "{" },
		},
		{
			name:   "bad_owner",
			mutate: func(s string) string { return strings.Replace(s, "0x1111111111111111111111111111111111111111", "not-an-address", 1) },
		},
		{
			name:   "bad_interpreter",
			mutate: func(s string) string { return strings.Replace(s, "0x2222222222222222222222222222222222222222", "0x22", 1) },
		},
		{
			name:   "bad_vault_id",
			mutate: func(s string) string { return strings.Replace(s, `"42"`, `"forty-two"`, 1) },
		},
		{
			name:   "decimals_too_large",
			mutate: func(s string) string { return strings.Replace(s, `"decimals": 6`, `"decimals": 30`, 1) },
		},
		{
			name:   "no_outputs",
			mutate: func(s string) string { return strings.Replace(s, `"validOutputs": [`, `"validOutputs": [], "ignored": [`, 1) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseOrders([]byte(tt.mutate(validOrderJSON))); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseOrdersEmptyList(t *testing.T) {
	orders, err := ParseOrders([]byte(`[]`))
	if err != nil {
		t.Fatalf("ParseOrders: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("got %d orders, want 0", len(orders))
	}
}

// Package ethereum implements the clearing context's on-chain adapters.
package ethereum

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Minimal ABI fragments for the three contracts the engine touches.
// Only the entrypoints the pipeline calls are declared.

const orderbookABIJSON = `[
  {
    "type": "function",
    "name": "vaultBalance",
    "stateMutability": "view",
    "inputs": [
      {"name": "owner", "type": "address"},
      {"name": "token", "type": "address"},
      {"name": "id", "type": "uint256"}
    ],
    "outputs": [{"name": "balance", "type": "uint256"}]
  }
]`

const interpreterABIJSON = `[
  {
    "type": "function",
    "name": "eval",
    "stateMutability": "view",
    "inputs": [
      {"name": "store", "type": "address"},
      {"name": "namespace", "type": "uint256"},
      {"name": "dispatch", "type": "uint256"},
      {"name": "context", "type": "uint256[][]"}
    ],
    "outputs": [
      {"name": "stack", "type": "uint256[]"},
      {"name": "kvs", "type": "uint256[]"}
    ]
  }
]`

const arbABIJSON = `[
  {
    "type": "function",
    "name": "arb",
    "stateMutability": "nonpayable",
    "inputs": [
      {
        "name": "takeOrders",
        "type": "tuple",
        "components": [
          {"name": "output", "type": "address"},
          {"name": "input", "type": "address"},
          {"name": "minimumInput", "type": "uint256"},
          {"name": "maximumInput", "type": "uint256"},
          {"name": "maximumIORatio", "type": "uint256"},
          {
            "name": "orders",
            "type": "tuple[]",
            "components": [
              {
                "name": "order",
                "type": "tuple",
                "components": [
                  {"name": "owner", "type": "address"},
                  {"name": "handleIO", "type": "bool"},
                  {
                    "name": "evaluable",
                    "type": "tuple",
                    "components": [
                      {"name": "interpreter", "type": "address"},
                      {"name": "store", "type": "address"},
                      {"name": "expression", "type": "address"}
                    ]
                  },
                  {
                    "name": "validInputs",
                    "type": "tuple[]",
                    "components": [
                      {"name": "token", "type": "address"},
                      {"name": "decimals", "type": "uint8"},
                      {"name": "vaultId", "type": "uint256"}
                    ]
                  },
                  {
                    "name": "validOutputs",
                    "type": "tuple[]",
                    "components": [
                      {"name": "token", "type": "address"},
                      {"name": "decimals", "type": "uint8"},
                      {"name": "vaultId", "type": "uint256"}
                    ]
                  }
                ]
              },
              {"name": "inputIOIndex", "type": "uint256"},
              {"name": "outputIOIndex", "type": "uint256"},
              {
                "name": "signedContext",
                "type": "tuple[]",
                "components": [
                  {"name": "signer", "type": "address"},
                  {"name": "context", "type": "uint256[]"},
                  {"name": "signature", "type": "bytes"}
                ]
              }
            ]
          }
        ]
      },
      {"name": "minimumSenderOutput", "type": "uint256"},
      {"name": "zeroExExchangeProxy", "type": "address"},
      {"name": "zeroExData", "type": "bytes"}
    ],
    "outputs": []
  }
]`

const erc20ABIJSON = `[
  {
    "type": "function",
    "name": "symbol",
    "stateMutability": "view",
    "inputs": [],
    "outputs": [{"name": "", "type": "string"}]
  },
  {
    "type": "function",
    "name": "decimals",
    "stateMutability": "view",
    "inputs": [],
    "outputs": [{"name": "", "type": "uint8"}]
  },
  {
    "type": "event",
    "name": "Transfer",
    "anonymous": false,
    "inputs": [
      {"name": "from", "type": "address", "indexed": true},
      {"name": "to", "type": "address", "indexed": true},
      {"name": "value", "type": "uint256", "indexed": false}
    ]
  }
]`

var (
	orderbookABI   = mustParseABI(orderbookABIJSON)
	interpreterABI = mustParseABI(interpreterABIJSON)
	arbABI         = mustParseABI(arbABIJSON)
	erc20ABI       = mustParseABI(erc20ABIJSON)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("ethereum: bad ABI fragment: " + err.Error())
	}
	return parsed
}

/*
Copyright 2025 Stablewallet Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package wallet is the narrow boundary to the wallet gateway, the service
// that signs and submits on-chain transfers after the user's passkey
// approval. Nothing in this package knows about signing, RPC transports or
// passkeys; it speaks plain JSON over HTTP and waits for the gateway to
// report a confirmation receipt.
package wallet

import (
	"context"
	"math/big"
)

// ReceiptStatusSuccess is the status a receipt carries when the transfer
// landed on-chain.
const ReceiptStatusSuccess = "success"

// TransferRequest describes one on-chain transfer. Amount is in integer
// minor units of Token. Memo, when present, is the fixed 32-byte padded
// field; nil means no memo.
type TransferRequest struct {
	To       string
	Amount   *big.Int
	Token    string
	FeeToken string
	Memo     []byte
}

// Receipt is the confirmation the gateway returns once a transfer (or a
// bundle of transfers) is final.
type Receipt struct {
	Hash        string `json:"hash"`
	BlockNumber int64  `json:"blockNumber"`
	GasUsed     int64  `json:"gasUsed"`
	Status      string `json:"status"`
}

// TransferFunc is the injected capability the batch executor calls for each
// payment. It suspends until a confirmation receipt (or failure) is
// available. Implementations must not retry internally: a duplicate submit
// is a duplicate payment.
type TransferFunc func(ctx context.Context, req TransferRequest) (*Receipt, error)

// BundleFunc submits every transfer as one multi-call transaction and
// returns the single aggregate receipt.
type BundleFunc func(ctx context.Context, reqs []TransferRequest) (*Receipt, error)

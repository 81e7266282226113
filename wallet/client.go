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

package wallet

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/stablewallet/payroll/config"
	"github.com/stablewallet/payroll/internal/request"
)

// Client talks to the wallet gateway over HTTP.
type Client struct {
	baseURL   string
	secretKey string
	timeout   time.Duration
}

// NewClient builds a gateway client from the loaded configuration.
func NewClient() (*Client, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:   cnf.WalletGateway.Url,
		secretKey: cnf.WalletGateway.SecretKey,
		timeout:   time.Duration(cnf.WalletGateway.Timeout) * time.Second,
	}, nil
}

type transferPayload struct {
	To       string `json:"to"`
	Amount   string `json:"amount"`
	Token    string `json:"token"`
	FeeToken string `json:"feeToken"`
	Memo     string `json:"memo,omitempty"`
}

type transferResponse struct {
	Hash    string   `json:"hash"`
	Receipt *Receipt `json:"receipt"`
	Error   string   `json:"error"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	payload, err := request.ToJsonReq(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, err
	}
	if c.secretKey != "" {
		req.Header.Set("X-Payroll-Secret", c.secretKey)
	}
	return req, nil
}

func toPayload(req TransferRequest) transferPayload {
	p := transferPayload{
		To:       req.To,
		Amount:   req.Amount.String(),
		Token:    req.Token,
		FeeToken: req.FeeToken,
	}
	if len(req.Memo) > 0 {
		p.Memo = "0x" + hex.EncodeToString(req.Memo)
	}
	return p
}

// Transfer submits one transfer and blocks until the gateway reports a
// confirmation receipt. It is deliberately never retried: the gateway call
// is not idempotent and a resubmit would double-pay.
func (c *Client) Transfer(ctx context.Context, req TransferRequest) (*Receipt, error) {
	httpReq, err := c.newRequest(ctx, http.MethodPost, "/transfers", toPayload(req))
	if err != nil {
		return nil, err
	}

	var response transferResponse
	resp, err := request.CallWithTimeout(httpReq, &response, c.timeout)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if response.Error != "" {
			return nil, fmt.Errorf("transfer rejected: %s", response.Error)
		}
		return nil, fmt.Errorf("transfer failed with status %d", resp.StatusCode)
	}
	if response.Receipt == nil {
		return nil, fmt.Errorf("gateway returned no receipt for transfer to %s", req.To)
	}
	receipt := response.Receipt
	if receipt.Hash == "" {
		receipt.Hash = response.Hash
	}
	return receipt, nil
}

// TransferBundle submits every transfer as one multi-call transaction and
// returns the aggregate receipt. Like Transfer, it is never retried.
func (c *Client) TransferBundle(ctx context.Context, reqs []TransferRequest) (*Receipt, error) {
	payloads := make([]transferPayload, 0, len(reqs))
	for _, r := range reqs {
		payloads = append(payloads, toPayload(r))
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/bundles", map[string]interface{}{"transfers": payloads})
	if err != nil {
		return nil, err
	}

	var response transferResponse
	resp, err := request.CallWithTimeout(httpReq, &response, c.timeout)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if response.Error != "" {
			return nil, fmt.Errorf("bundle rejected: %s", response.Error)
		}
		return nil, fmt.Errorf("bundle failed with status %d", resp.StatusCode)
	}
	if response.Receipt == nil {
		return nil, fmt.Errorf("gateway returned no receipt for bundle")
	}
	return response.Receipt, nil
}

type balanceResponse struct {
	Balance string `json:"balance"`
	Error   string `json:"error"`
}

// GetBalance returns the available balance of account in the given token as
// a decimal string. Reads are idempotent, so transient gateway failures are
// retried with exponential backoff before giving up.
func (c *Client) GetBalance(ctx context.Context, account, token string) (string, error) {
	var balance string

	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
			fmt.Sprintf("%s/balances/%s/%s", c.baseURL, account, token), nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		if c.secretKey != "" {
			httpReq.Header.Set("X-Payroll-Secret", c.secretKey)
		}

		var response balanceResponse
		resp, err := request.CallWithTimeout(httpReq, &response, c.timeout)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("balance lookup failed with status %d", resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if response.Error != "" {
				return backoff.Permanent(fmt.Errorf("balance lookup rejected: %s", response.Error))
			}
			return backoff.Permanent(fmt.Errorf("balance lookup failed with status %d", resp.StatusCode))
		}
		balance = response.Balance
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		logrus.Errorf("balance lookup for %s failed: %v", account, err)
		return "", err
	}
	return balance, nil
}

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

package payroll

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/stablewallet/payroll/config"
	"github.com/stablewallet/payroll/model"
	"github.com/stablewallet/payroll/wallet"
)

const (
	// batchWindowSize groups payments for progress reporting. Execution is
	// sequential either way: each transfer needs its own passkey approval.
	batchWindowSize = 10

	// interWindowPause spaces out windows so a long batch doesn't hammer
	// the downstream network. Pacing only, no correctness implication.
	interWindowPause = 500 * time.Millisecond
)

// ProgressFunc receives progress snapshots as the batch advances.
type ProgressFunc func(progress model.BatchProgress)

// ExecuteBatch runs every payment through transferFn, one at a time, in
// input order. A failed payment is recorded and never aborts the batch. The
// returned result carries one entry per executed payment, in order.
//
// Cancelling ctx stops the batch between payments; payments already executed
// stay in the partial result. A transfer already submitted is not rolled
// back - it lands or fails on-chain independently.
func ExecuteBatch(ctx context.Context, payments []model.Payment, feeToken string, transferFn wallet.TransferFunc, onProgress ProgressFunc) (*model.BatchExecutionResult, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	results := make([]model.PaymentResult, 0, len(payments))

	windows := chunkPayments(payments, batchWindowSize)

	report := func(current int) {
		if onProgress == nil {
			return
		}
		completed, failed := countResults(results)
		onProgress(model.BatchProgress{
			CurrentBatch:          (current-1)/batchWindowSize + 1,
			TotalBatches:          len(windows),
			CurrentTransaction:    current,
			TotalTransactions:     len(payments),
			CompletedTransactions: completed,
			FailedTransactions:    failed,
		})
	}

	for windowIndex, window := range windows {
		report(windowIndex*batchWindowSize + 1)

		for i, payment := range window {
			if ctx.Err() != nil {
				return synthesizeResult(results, startTime, cnf), ctx.Err()
			}

			report(windowIndex*batchWindowSize + i + 1)
			results = append(results, executePayment(ctx, cnf, payment, feeToken, transferFn))
		}

		report(min(windowIndex*batchWindowSize+len(window), len(payments)))

		if windowIndex < len(windows)-1 {
			select {
			case <-time.After(interWindowPause):
			case <-ctx.Done():
				return synthesizeResult(results, startTime, cnf), ctx.Err()
			}
		}
	}

	return synthesizeResult(results, startTime, cnf), nil
}

// executePayment runs a single payment to a terminal result. Every failure
// mode - bad amount, oversize memo, transfer rejection - is recorded as a
// FAILED result, never raised.
func executePayment(ctx context.Context, cnf *config.Configuration, payment model.Payment, feeToken string, transferFn wallet.TransferFunc) model.PaymentResult {
	result := model.PaymentResult{
		ID:     payment.ID,
		Status: model.StatusPending,
		Employee: model.ResultEmployee{
			Name:    employeeName(payment),
			Address: payment.Employee.Address,
		},
		Amount: payment.Amount,
	}

	amount, err := model.ToMinorUnits(payment.Amount, cnf.TokenDecimals(payment.Token))
	if err != nil {
		return failResult(result, err)
	}

	memo, err := model.EncodeMemo(payment.Memo)
	if err != nil {
		return failResult(result, err)
	}

	receipt, err := transferFn(ctx, wallet.TransferRequest{
		To:       payment.Employee.Address,
		Amount:   amount,
		Token:    payment.Token,
		FeeToken: feeToken,
		Memo:     memo,
	})
	if err != nil {
		logrus.Errorf("payment %s to %s failed: %v", payment.ID, payment.Employee.Address, err)
		return failResult(result, err)
	}

	result.Status = model.StatusCompleted
	result.TransactionHash = receipt.Hash
	result.BlockNumber = receipt.BlockNumber
	result.Timestamp = time.Now().UTC().Format(time.RFC3339)
	result.ExplorerURL = cnf.Chain.ExplorerUrl + "/tx/" + receipt.Hash
	result.GasUsed = gasUsed(receipt, cnf)
	return result
}

func failResult(result model.PaymentResult, err error) model.PaymentResult {
	result.Status = model.StatusFailed
	result.ErrorCode = model.ErrCodeTransactionFailed
	result.ErrorMessage = err.Error()
	return result
}

// gasUsed prefers the real gas from the receipt and falls back to the flat
// per-transaction estimate when the gateway reported none.
func gasUsed(receipt *wallet.Receipt, cnf *config.Configuration) string {
	if receipt.GasUsed > 0 {
		return strconv.FormatInt(receipt.GasUsed, 10)
	}
	return cnf.Chain.FlatFeeEstimate
}

func employeeName(payment model.Payment) string {
	if payment.Employee.Name != "" {
		return payment.Employee.Name
	}
	return payment.ID
}

func countResults(results []model.PaymentResult) (completed, failed int) {
	for _, r := range results {
		switch r.Status {
		case model.StatusCompleted:
			completed++
		case model.StatusFailed:
			failed++
		}
	}
	return completed, failed
}

func synthesizeResult(results []model.PaymentResult, startTime time.Time, cnf *config.Configuration) *model.BatchExecutionResult {
	successCount, failureCount := countResults(results)

	flatFee, err := decimal.NewFromString(cnf.Chain.FlatFeeEstimate)
	if err != nil {
		flatFee = decimal.NewFromFloat(0.001)
	}
	totalFees := flatFee.Mul(decimal.NewFromInt(int64(successCount)))

	return &model.BatchExecutionResult{
		Results:      results,
		TotalTimeMs:  time.Since(startTime).Milliseconds(),
		TotalFees:    totalFees.StringFixed(3),
		SuccessCount: successCount,
		FailureCount: failureCount,
	}
}

// ExecuteBundle submits the whole batch as one multi-call transaction. There
// is no partial success: a non-success aggregate receipt (or a submit
// failure) marks every payment BUNDLE_FAILED, and a success receipt marks
// every payment COMPLETED against the shared transaction.
func ExecuteBundle(ctx context.Context, payments []model.Payment, feeToken string, bundleFn wallet.BundleFunc) (*model.BatchExecutionResult, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	startTime := time.Now()

	results := make([]model.PaymentResult, 0, len(payments))
	for _, payment := range payments {
		results = append(results, model.PaymentResult{
			ID:     payment.ID,
			Status: model.StatusPending,
			Employee: model.ResultEmployee{
				Name:    employeeName(payment),
				Address: payment.Employee.Address,
			},
			Amount: payment.Amount,
		})
	}

	requests := make([]wallet.TransferRequest, 0, len(payments))
	for _, payment := range payments {
		amount, err := model.ToMinorUnits(payment.Amount, cnf.TokenDecimals(payment.Token))
		if err != nil {
			return bundleFailed(results, startTime, cnf, err), nil
		}
		memo, err := model.EncodeMemo(payment.Memo)
		if err != nil {
			return bundleFailed(results, startTime, cnf, err), nil
		}
		requests = append(requests, wallet.TransferRequest{
			To:       payment.Employee.Address,
			Amount:   amount,
			Token:    payment.Token,
			FeeToken: feeToken,
			Memo:     memo,
		})
	}

	receipt, err := bundleFn(ctx, requests)
	if err != nil {
		return bundleFailed(results, startTime, cnf, err), nil
	}
	if receipt.Status != wallet.ReceiptStatusSuccess {
		logrus.Errorf("bundle receipt %s reported status %q", receipt.Hash, receipt.Status)
		return bundleFailed(results, startTime, cnf, errors.New("bundle transaction reverted")), nil
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	for i := range results {
		results[i].Status = model.StatusCompleted
		results[i].TransactionHash = receipt.Hash
		results[i].BlockNumber = receipt.BlockNumber
		results[i].Timestamp = timestamp
		results[i].ExplorerURL = cnf.Chain.ExplorerUrl + "/tx/" + receipt.Hash
		results[i].GasUsed = gasUsed(receipt, cnf)
	}

	flatFee, err := decimal.NewFromString(cnf.Chain.FlatFeeEstimate)
	if err != nil {
		flatFee = decimal.NewFromFloat(0.001)
	}

	return &model.BatchExecutionResult{
		Results:      results,
		TotalTimeMs:  time.Since(startTime).Milliseconds(),
		TotalFees:    flatFee.StringFixed(3),
		SuccessCount: len(results),
		FailureCount: 0,
	}, nil
}

func bundleFailed(results []model.PaymentResult, startTime time.Time, cnf *config.Configuration, cause error) *model.BatchExecutionResult {
	for i := range results {
		results[i].Status = model.StatusFailed
		results[i].ErrorCode = model.ErrCodeBundleFailed
		results[i].ErrorMessage = cause.Error()
	}
	return synthesizeResult(results, startTime, cnf)
}

func chunkPayments(payments []model.Payment, size int) [][]model.Payment {
	var chunks [][]model.Payment
	for i := 0; i < len(payments); i += size {
		end := i + size
		if end > len(payments) {
			end = len(payments)
		}
		chunks = append(chunks, payments[i:end])
	}
	return chunks
}

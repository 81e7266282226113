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
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stablewallet/payroll/model"
)

func paymentWith(id, address, amount, memo string) model.Payment {
	return model.Payment{
		ID:       id,
		Employee: model.Employee{Name: gofakeit.Name(), Address: address, EmployeeID: id},
		Amount:   amount,
		Currency: "USD",
		Memo:     memo,
	}
}

func warningCodes(warnings []model.ValidationWarning) []string {
	codes := make([]string, 0, len(warnings))
	for _, w := range warnings {
		codes = append(codes, w.Code)
	}
	return codes
}

func TestValidateInstruction_NoPayments(t *testing.T) {
	instruction := &model.PaymentInstruction{MessageID: "EMPTY"}

	// The rule fires regardless of how much balance is available.
	for _, balance := range []string{"0", "1000000", "not-a-number"} {
		result := ValidateInstruction(instruction, balance)
		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, model.ErrNoPayments, result.Errors[0].Code)
	}
}

func TestValidateInstruction_InsufficientBalance(t *testing.T) {
	instruction := &model.PaymentInstruction{
		MessageID: "BATCH",
		Payments: []model.Payment{
			paymentWith("PAY-1", "0xaaa1", "600", "salary"),
			paymentWith("PAY-2", "0xaaa2", "500", "salary"),
		},
	}

	result := ValidateInstruction(instruction, "1000")
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.ErrInsufficientBalance, result.Errors[0].Code)
	assert.Equal(t, "Insufficient balance: need 1100.00, have 1000.00", result.Errors[0].Message)
}

func TestValidateInstruction_SumEqualToBalanceIsValid(t *testing.T) {
	instruction := &model.PaymentInstruction{
		MessageID: "BATCH",
		Payments: []model.Payment{
			paymentWith("PAY-1", "0xaaa1", "600", "salary"),
			paymentWith("PAY-2", "0xaaa2", "400", "salary"),
		},
	}

	result := ValidateInstruction(instruction, "1000")
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateInstruction_DuplicateAddress(t *testing.T) {
	instruction := &model.PaymentInstruction{
		MessageID: "BATCH",
		Payments: []model.Payment{
			paymentWith("PAY-1", "0xABCD", "10", "salary"),
			paymentWith("PAY-2", "0xabcd", "10", "salary"),
			paymentWith("PAY-3", "0xABCD", "10", "salary"),
		},
	}

	result := ValidateInstruction(instruction, "1000")
	assert.True(t, result.Valid)

	// Case-insensitive: three payments to one address warn twice, on the
	// second and third occurrence.
	duplicates := []model.ValidationWarning{}
	for _, w := range result.Warnings {
		if w.Code == model.WarnDuplicateAddress {
			duplicates = append(duplicates, w)
		}
	}
	require.Len(t, duplicates, 2)
	assert.Equal(t, "PAY-2", duplicates[0].PaymentID)
	assert.Equal(t, "PAY-3", duplicates[1].PaymentID)
}

func TestValidateInstruction_AmountWarnings(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		wantCodes []string
	}{
		{name: "zero amount", amount: "0", wantCodes: []string{model.WarnInvalidAmount, model.WarnSmallAmount}},
		{name: "negative amount", amount: "-5", wantCodes: []string{model.WarnInvalidAmount, model.WarnSmallAmount}},
		{name: "below one", amount: "0.50", wantCodes: []string{model.WarnSmallAmount}},
		{name: "exactly one", amount: "1", wantCodes: nil},
		{name: "large amount", amount: "100000.01", wantCodes: []string{model.WarnLargeAmount}},
		{name: "exactly at large threshold", amount: "100000", wantCodes: nil},
		{name: "unparseable amount skips range checks", amount: "abc", wantCodes: []string{model.WarnInvalidAmount}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instruction := &model.PaymentInstruction{
				MessageID: "BATCH",
				Payments:  []model.Payment{paymentWith("PAY-1", "0xaaa1", tt.amount, "salary")},
			}

			result := ValidateInstruction(instruction, "10000000")
			assert.ElementsMatch(t, tt.wantCodes, warningCodes(result.Warnings))
		})
	}
}

func TestValidateInstruction_UnparseableAmountContributesZeroToSum(t *testing.T) {
	instruction := &model.PaymentInstruction{
		MessageID: "BATCH",
		Payments: []model.Payment{
			paymentWith("PAY-1", "0xaaa1", "abc", "salary"),
			paymentWith("PAY-2", "0xaaa2", "50", "salary"),
		},
	}

	// Only the parseable 50 counts toward the required balance.
	result := ValidateInstruction(instruction, "50")
	assert.True(t, result.Valid)
	assert.Contains(t, warningCodes(result.Warnings), model.WarnInvalidAmount)
}

func TestValidateInstruction_MissingMemo(t *testing.T) {
	instruction := &model.PaymentInstruction{
		MessageID: "BATCH",
		Payments: []model.Payment{
			paymentWith("PAY-1", "0xaaa1", "10", ""),
			paymentWith("PAY-2", "0xaaa2", "10", "salary"),
		},
	}

	result := ValidateInstruction(instruction, "1000")
	memoWarnings := []model.ValidationWarning{}
	for _, w := range result.Warnings {
		if w.Code == model.WarnMissingMemo {
			memoWarnings = append(memoWarnings, w)
		}
	}
	require.Len(t, memoWarnings, 1)
	assert.Equal(t, "PAY-1", memoWarnings[0].PaymentID)
}

func TestValidateInstruction_UnparseableBalanceTreatedAsZero(t *testing.T) {
	instruction := &model.PaymentInstruction{
		MessageID: "BATCH",
		Payments:  []model.Payment{paymentWith("PAY-1", "0xaaa1", "10", "salary")},
	}

	result := ValidateInstruction(instruction, "not-a-number")
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.ErrInsufficientBalance, result.Errors[0].Code)
	assert.Equal(t, "Insufficient balance: need 10.00, have 0.00", result.Errors[0].Message)
}

func TestValidateInstruction_WarningsDoNotBlock(t *testing.T) {
	instruction := &model.PaymentInstruction{
		MessageID: "BATCH",
		Payments: []model.Payment{
			paymentWith("PAY-1", "0xaaa1", "0.5", ""),
			paymentWith("PAY-2", "0xaaa1", "0.5", ""),
		},
	}

	result := ValidateInstruction(instruction, "1000")
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.Warnings)
}

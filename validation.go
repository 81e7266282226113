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
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stablewallet/payroll/model"
)

var (
	largeAmountThreshold = decimal.NewFromInt(100000)
	smallAmountThreshold = decimal.NewFromInt(1)
)

// ValidateInstruction applies balance and structural rules to an instruction
// and returns blocking errors and non-blocking warnings. It is a pure
// function of the instruction and the available balance: no I/O, and the
// instruction is never mutated.
//
// Errors cover only what would make on-chain execution fail or overspend.
// Everything else users may deliberately want (duplicate recipients, tiny
// amounts, missing memos) is a warning the UI can let them proceed past.
func ValidateInstruction(instruction *model.PaymentInstruction, availableBalance string) model.ValidationResult {
	errs := []model.ValidationError{}
	warnings := []model.ValidationWarning{}

	if len(instruction.Payments) == 0 {
		errs = append(errs, model.ValidationError{
			Code:    model.ErrNoPayments,
			Message: "At least one payment is required",
		})
	}

	// Unparseable amounts contribute zero to the sum; the INVALID_AMOUNT
	// warning below is what surfaces them.
	actualSum := decimal.Zero
	for _, payment := range instruction.Payments {
		if amount, err := decimal.NewFromString(payment.Amount); err == nil {
			actualSum = actualSum.Add(amount)
		}
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(availableBalance))
	if err != nil {
		balance = decimal.Zero
	}

	// Equal sum and balance is fine; only an actual overspend blocks.
	if actualSum.GreaterThan(balance) {
		errs = append(errs, model.ValidationError{
			Code:    model.ErrInsufficientBalance,
			Message: fmt.Sprintf("Insufficient balance: need %s, have %s", actualSum.StringFixed(2), balance.StringFixed(2)),
		})
	}

	seenAddresses := make(map[string]bool)
	for _, payment := range instruction.Payments {
		address := strings.TrimSpace(payment.Employee.Address)
		addressLower := strings.ToLower(address)

		if seenAddresses[addressLower] {
			warnings = append(warnings, model.ValidationWarning{
				Code:      model.WarnDuplicateAddress,
				Message:   fmt.Sprintf("Duplicate payment to address %s", address),
				PaymentID: payment.ID,
			})
		}
		seenAddresses[addressLower] = true

		amount, err := decimal.NewFromString(payment.Amount)
		if err != nil {
			warnings = append(warnings, model.ValidationWarning{
				Code:      model.WarnInvalidAmount,
				Message:   fmt.Sprintf("Invalid amount: %s", payment.Amount),
				PaymentID: payment.ID,
			})
		} else {
			if amount.Sign() <= 0 {
				warnings = append(warnings, model.ValidationWarning{
					Code:      model.WarnInvalidAmount,
					Message:   fmt.Sprintf("Invalid amount: %s", payment.Amount),
					PaymentID: payment.ID,
				})
			}
			// The range checks are independent of the sign check, so a
			// negative amount also fires SMALL_AMOUNT.
			if amount.GreaterThan(largeAmountThreshold) {
				warnings = append(warnings, model.ValidationWarning{
					Code:      model.WarnLargeAmount,
					Message:   fmt.Sprintf("Unusually large payment amount: %s", payment.Amount),
					PaymentID: payment.ID,
				})
			}
			if amount.LessThan(smallAmountThreshold) {
				warnings = append(warnings, model.ValidationWarning{
					Code:      model.WarnSmallAmount,
					Message:   fmt.Sprintf("Unusually small payment amount: %s", payment.Amount),
					PaymentID: payment.ID,
				})
			}
		}

		if payment.Memo == "" {
			warnings = append(warnings, model.ValidationWarning{
				Code:      model.WarnMissingMemo,
				Message:   "Payment memo is recommended for tracking",
				PaymentID: payment.ID,
			})
		}
	}

	return model.ValidationResult{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}

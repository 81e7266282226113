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
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stablewallet/payroll/model"
)

func successResult(id string) model.PaymentResult {
	return model.PaymentResult{
		ID:              id,
		Status:          model.StatusCompleted,
		Employee:        model.ResultEmployee{Name: "Alice Johnson", Address: "0x1111"},
		Amount:          "1200.50",
		TransactionHash: "0xhash-" + id,
		BlockNumber:     42,
		Timestamp:       "2025-08-29T09:00:00Z",
		ExplorerURL:     "https://explore.tempo.xyz/tx/0xhash-" + id,
		GasUsed:         "21000",
	}
}

func failureResult(id string) model.PaymentResult {
	return model.PaymentResult{
		ID:           id,
		Status:       model.StatusFailed,
		Employee:     model.ResultEmployee{Name: "Bob Lee", Address: "0x2222"},
		Amount:       "980.00",
		ErrorCode:    model.ErrCodeTransactionFailed,
		ErrorMessage: "transfer rejected by gateway",
	}
}

func reportInstruction() *model.PaymentInstruction {
	return &model.PaymentInstruction{MessageID: "PAYROLL-2025-08"}
}

func TestGenerateReport_StatusFold(t *testing.T) {
	tests := []struct {
		name       string
		results    []model.PaymentResult
		wantStatus string
	}{
		{
			name:       "all successful",
			results:    []model.PaymentResult{successResult("SAL-001"), successResult("SAL-002")},
			wantStatus: model.StatusCompleted,
		},
		{
			name:       "all failed",
			results:    []model.PaymentResult{failureResult("SAL-001"), failureResult("SAL-002")},
			wantStatus: model.StatusFailed,
		},
		{
			name:       "mixed",
			results:    []model.PaymentResult{successResult("SAL-001"), failureResult("SAL-002")},
			wantStatus: model.StatusPartiallyCompleted,
		},
		{
			name:       "empty results",
			results:    nil,
			wantStatus: model.StatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := GenerateReport(reportInstruction(), tt.results, 1500, "0.002")
			assert.Equal(t, tt.wantStatus, report.Status)
		})
	}
}

func TestGenerateReport_Aggregates(t *testing.T) {
	results := []model.PaymentResult{successResult("SAL-001"), successResult("SAL-002"), failureResult("SAL-003")}

	report := GenerateReport(reportInstruction(), results, 2750, "0.002")

	assert.Equal(t, "STATUS-PAYROLL-2025-08", report.MessageID)
	assert.Equal(t, "PAYROLL-2025-08", report.OriginalMessageID)
	assert.Equal(t, 3, report.NumberOfTransactions)
	assert.Equal(t, 2, report.NumberOfSuccessful)
	assert.Equal(t, 1, report.NumberOfFailed)
	// Only completed payments count toward the processed total.
	assert.Equal(t, "2401.00", report.TotalAmountProcessed)
	assert.Equal(t, "0.002", report.TotalFeesPaid)
	assert.Equal(t, "2.8s", report.ExecutionTime)
	assert.Len(t, report.Payments, 3)
}

func TestReportToXML(t *testing.T) {
	results := []model.PaymentResult{successResult("SAL-001"), failureResult("SAL-002")}
	report := GenerateReport(reportInstruction(), results, 1000, "0.001")

	out, err := ReportToXML(report)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `urn:iso:std:iso:20022:tech:xsd:pain.002.001.03`)
	assert.Contains(t, out, "<GrpSts>PART</GrpSts>")
	assert.Contains(t, out, "<OrgnlEndToEndId>SAL-001</OrgnlEndToEndId>")
	assert.Contains(t, out, "<TxSts>ACCP</TxSts>")
	assert.Contains(t, out, "<TxSts>RJCT</TxSts>")
	assert.Contains(t, out, "<Cd>TRANSACTION_FAILED</Cd>")
	assert.Contains(t, out, "Transaction Hash: 0xhash-SAL-001")
}

func TestReportToXML_EscapesMetacharacters(t *testing.T) {
	result := failureResult("SAL-001")
	result.Employee.Name = `Eve <script>"&'</script>`
	result.ErrorMessage = `rejected: <reason> & more`
	report := GenerateReport(reportInstruction(), []model.PaymentResult{result}, 100, "0")

	out, err := ReportToXML(report)
	require.NoError(t, err)

	assert.NotContains(t, out, "<reason>")
	assert.Contains(t, out, "&lt;reason&gt;")
}

func TestReportToCSV(t *testing.T) {
	results := []model.PaymentResult{successResult("SAL-001"), failureResult("SAL-002")}
	report := GenerateReport(reportInstruction(), results, 1000, "0.001")

	out, err := ReportToCSV(report)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	// Header plus one row per payment.
	require.Len(t, lines, len(results)+1)
	assert.Equal(t, "Payment ID,Employee Name,Employee Address,Amount,Status,Transaction Hash,Block Number,Timestamp,Gas Used,Error Message,Explorer URL", lines[0])
	assert.Contains(t, lines[1], "SAL-001")
	assert.Contains(t, lines[1], model.StatusCompleted)
	assert.Contains(t, lines[2], "SAL-002")
	assert.Contains(t, lines[2], "transfer rejected by gateway")
}

func TestReportToCSV_EscapesDelimiters(t *testing.T) {
	result := successResult("SAL-001")
	result.Employee.Name = `Johnson, Alice "AJ"`
	report := GenerateReport(reportInstruction(), []model.PaymentResult{result}, 100, "0.001")

	out, err := ReportToCSV(report)
	require.NoError(t, err)

	// The quoted name must survive a round trip through a CSV reader.
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, `Johnson, Alice "AJ"`, records[1][1])
}

func TestReportToJSON_RoundTrip(t *testing.T) {
	results := []model.PaymentResult{successResult("SAL-001"), failureResult("SAL-002")}
	report := GenerateReport(reportInstruction(), results, 1000, "0.001")

	out, err := ReportToJSON(report)
	require.NoError(t, err)

	var decoded model.PaymentStatusReport
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, *report, decoded)
}

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
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stablewallet/payroll/config"
	"github.com/stablewallet/payroll/internal/apierror"
	"github.com/stablewallet/payroll/model"
)

// stubDataSource holds a single instruction in memory and captures the run
// that ExecuteInstruction persists.
type stubDataSource struct {
	record         *model.InstructionRecord
	recordedRun    *model.PayrollRun
	recordedReport *model.PaymentStatusReport
}

func (s *stubDataSource) RecordInstruction(_ context.Context, instruction *model.PaymentInstruction) (*model.InstructionRecord, error) {
	s.record = &model.InstructionRecord{
		InstructionID:        "ins_test",
		MessageID:            instruction.MessageID,
		NumberOfTransactions: len(instruction.Payments),
		CreatedAt:            time.Now(),
		Instruction:          instruction,
	}
	return s.record, nil
}

func (s *stubDataSource) GetInstruction(_ context.Context, instructionID string) (*model.InstructionRecord, error) {
	if s.record == nil || s.record.InstructionID != instructionID {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "Instruction not found", nil)
	}
	return s.record, nil
}

func (s *stubDataSource) GetAllInstructions(_ context.Context, _, _ int) ([]model.InstructionRecord, error) {
	if s.record == nil {
		return nil, nil
	}
	return []model.InstructionRecord{*s.record}, nil
}

func (s *stubDataSource) RecordRun(_ context.Context, run *model.PayrollRun, report *model.PaymentStatusReport) (*model.PayrollRun, error) {
	run.RunID = "run_test"
	run.CreatedAt = time.Now()
	s.recordedRun = run
	s.recordedReport = report
	return run, nil
}

func (s *stubDataSource) GetRunReport(_ context.Context, runID string) (*model.PaymentStatusReport, error) {
	if s.recordedRun == nil || s.recordedRun.RunID != runID {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "Run not found", nil)
	}
	return s.recordedReport, nil
}

func (s *stubDataSource) GetAllRuns(_ context.Context, _, _ int) ([]model.PayrollRun, error) {
	if s.recordedRun == nil {
		return nil, nil
	}
	return []model.PayrollRun{*s.recordedRun}, nil
}

func TestExecuteInstructionDefaultsFeeToken(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	ds := &stubDataSource{}
	p := newTestPayrollWithDataSource(t, ds)

	// A simplified JSON upload carries no feeToken. Execution must still pay
	// fees in the configured default token, the same one the balance
	// pre-flight checked against.
	_, err := p.UploadInstruction(context.Background(), []byte(`{
		"messageId": "PAYROLL-2025-08",
		"payments": [
			{"id": "SAL-001", "employee": {"name": "Alice Johnson", "address": "0x1111"}, "amount": "1200.50", "memo": "Salary Aug"},
			{"id": "SAL-002", "employee": {"name": "Bob Lee", "address": "0x2222"}, "amount": "980.00", "memo": "Salary Aug"}
		]
	}`))
	require.NoError(t, err)
	require.Empty(t, ds.record.Instruction.FeeToken)

	httpmock.RegisterResponder(http.MethodGet, testBalanceURL,
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]interface{}{"balance": "5000.00"}))

	var feeTokens []string
	httpmock.RegisterResponder(http.MethodPost, "http://wallet-gateway.local/transfers",
		func(req *http.Request) (*http.Response, error) {
			var payload map[string]interface{}
			require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
			feeToken, _ := payload["feeToken"].(string)
			feeTokens = append(feeTokens, feeToken)
			return httpmock.NewJsonResponse(http.StatusOK, map[string]interface{}{
				"hash":    "0xhash1",
				"receipt": map[string]interface{}{"blockNumber": 42, "gasUsed": 21000, "status": "success"},
			})
		})

	report, run, err := p.ExecuteInstruction(context.Background(), "ins_test", testEmployer, ModeBatch, nil)
	require.NoError(t, err)

	require.Len(t, feeTokens, 2)
	for _, feeToken := range feeTokens {
		assert.Equal(t, config.DEFAULT_TOKEN, feeToken)
	}

	assert.Equal(t, model.StatusCompleted, report.Status)
	assert.Equal(t, "run_test", run.RunID)
	assert.Equal(t, 2, ds.recordedRun.SuccessCount)
}

func TestExecuteInstructionBlocksOnValidationErrors(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	ds := &stubDataSource{}
	p := newTestPayrollWithDataSource(t, ds)

	_, err := p.UploadInstruction(context.Background(), []byte(`{
		"messageId": "PAYROLL-2025-08",
		"payments": [
			{"id": "SAL-001", "employee": {"name": "Alice Johnson", "address": "0x1111"}, "amount": "9000.00", "memo": "Salary Aug"}
		]
	}`))
	require.NoError(t, err)

	httpmock.RegisterResponder(http.MethodGet, testBalanceURL,
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]interface{}{"balance": "5000.00"}))

	transferCalls := 0
	httpmock.RegisterResponder(http.MethodPost, "http://wallet-gateway.local/transfers",
		func(req *http.Request) (*http.Response, error) {
			transferCalls++
			return httpmock.NewJsonResponse(http.StatusOK, map[string]interface{}{"hash": "0xhash1"})
		})

	_, _, err = p.ExecuteInstruction(context.Background(), "ins_test", testEmployer, ModeBatch, nil)
	require.Error(t, err)

	var apiErr apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.ErrValidation, apiErr.Code)
	assert.Zero(t, transferCalls)
	assert.Nil(t, ds.recordedRun)
}

func newTestPayrollWithDataSource(t *testing.T, ds *stubDataSource) *Payroll {
	t.Helper()
	p := newTestPayroll(t)
	p.datasource = ds
	return p
}

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
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/stablewallet/payroll/internal/apierror"
	"github.com/stablewallet/payroll/model"
)

var tracer = otel.Tracer("payroll.instruction")

func logAndRecordError(span trace.Span, msg string, err error) error {
	span.RecordError(err)
	logrus.Error(msg, err)
	return err
}

// UploadInstruction parses a pain.001 document (XML or JSON) and stores the
// normalized instruction. Parsing failures surface as a PARSE_ERROR so the
// API can map them to a 400.
func (p *Payroll) UploadInstruction(ctx context.Context, content []byte) (*model.InstructionRecord, error) {
	ctx, span := tracer.Start(ctx, "Uploading payment instruction")
	defer span.End()

	instruction, err := ParsePain001(content)
	if err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrParseError, err.Error(), err)
	}

	record, err := p.datasource.RecordInstruction(ctx, instruction)
	if err != nil {
		return nil, logAndRecordError(span, "record instruction error: ", err)
	}

	logrus.Infof("stored instruction %s (%s, %d payments)", record.InstructionID, record.MessageID, len(instruction.Payments))
	return record, nil
}

// GetInstruction retrieves a stored instruction with its full document.
func (p *Payroll) GetInstruction(ctx context.Context, instructionID string) (*model.InstructionRecord, error) {
	return p.datasource.GetInstruction(ctx, instructionID)
}

// GetAllInstructions lists stored instructions, newest first.
func (p *Payroll) GetAllInstructions(ctx context.Context, limit, offset int) ([]model.InstructionRecord, error) {
	return p.datasource.GetAllInstructions(ctx, limit, offset)
}

// PreflightInstruction runs the pre-execution checks for a stored instruction
// against the employer account's live balance. Errors in the result block
// execution; warnings do not.
func (p *Payroll) PreflightInstruction(ctx context.Context, instructionID, account string) (*model.ValidationResult, error) {
	ctx, span := tracer.Start(ctx, "Validating payment instruction")
	defer span.End()

	record, err := p.datasource.GetInstruction(ctx, instructionID)
	if err != nil {
		return nil, logAndRecordError(span, "fetch instruction error: ", err)
	}

	token := record.Instruction.FeeToken
	if token == "" {
		token = defaultToken()
	}
	balance, err := p.AvailableBalance(ctx, account, token)
	if err != nil {
		return nil, logAndRecordError(span, "balance check error: ", err)
	}

	result := ValidateInstruction(record.Instruction, balance)
	return &result, nil
}

// Execution modes accepted by ExecuteInstruction.
const (
	ModeBatch  = "batch"
	ModeBundle = "bundle"
)

// ExecuteInstruction runs a stored instruction end to end: pre-flight
// validation, execution through the wallet gateway, report generation and
// persistence of the run. Batch mode submits one transfer per payment and
// tolerates individual failures; bundle mode submits a single atomic
// transaction. A validation error aborts before any transfer is submitted.
func (p *Payroll) ExecuteInstruction(ctx context.Context, instructionID, account, mode string, onProgress ProgressFunc) (*model.PaymentStatusReport, *model.PayrollRun, error) {
	ctx, span := tracer.Start(ctx, "Executing payment instruction")
	defer span.End()

	record, err := p.datasource.GetInstruction(ctx, instructionID)
	if err != nil {
		return nil, nil, logAndRecordError(span, "fetch instruction error: ", err)
	}
	instruction := record.Instruction

	token := instruction.FeeToken
	if token == "" {
		token = defaultToken()
	}
	balance, err := p.AvailableBalance(ctx, account, token)
	if err != nil {
		return nil, nil, logAndRecordError(span, "balance check error: ", err)
	}

	validation := ValidateInstruction(instruction, balance)
	if !validation.Valid {
		err := apierror.NewAPIError(apierror.ErrValidation, fmt.Sprintf("instruction failed validation: %d error(s)", len(validation.Errors)), validation.Errors)
		span.RecordError(err)
		return nil, nil, err
	}

	SendWebhook(startedWebhook(record))

	var execution *model.BatchExecutionResult
	var execErr error
	if mode == ModeBundle {
		execution, execErr = ExecuteBundle(ctx, instruction.Payments, token, p.wallet.TransferBundle)
	} else {
		execution, execErr = ExecuteBatch(ctx, instruction.Payments, token, p.wallet.Transfer, onProgress)
	}
	if execution == nil {
		return nil, nil, logAndRecordError(span, "batch execution error: ", execErr)
	}
	if execErr != nil {
		// Partial results from a cancelled run still get reported and stored.
		span.RecordError(execErr)
		logrus.Warnf("batch execution stopped early: %v", execErr)
	}

	p.InvalidateBalance(ctx, account, token)

	report := GenerateReport(instruction, execution.Results, execution.TotalTimeMs, execution.TotalFees)
	run := &model.PayrollRun{
		InstructionID:   record.InstructionID,
		MessageID:       instruction.MessageID,
		Status:          report.Status,
		SuccessCount:    execution.SuccessCount,
		FailureCount:    execution.FailureCount,
		TotalFees:       execution.TotalFees,
		ExecutionTimeMs: execution.TotalTimeMs,
		ExecutedBy:      account,
	}
	run, err = p.datasource.RecordRun(ctx, run, report)
	if err != nil {
		return nil, nil, logAndRecordError(span, "record run error: ", err)
	}

	SendWebhook(completedWebhook(run, report))

	logrus.Infof("run %s finished: %s (%d/%d successful)", run.RunID, report.Status, report.NumberOfSuccessful, report.NumberOfTransactions)
	return report, run, nil
}

// GetReport retrieves the stored status report for a run.
func (p *Payroll) GetReport(ctx context.Context, runID string) (*model.PaymentStatusReport, error) {
	return p.datasource.GetRunReport(ctx, runID)
}

// GetAllRuns lists execution runs, newest first.
func (p *Payroll) GetAllRuns(ctx context.Context, limit, offset int) ([]model.PayrollRun, error) {
	return p.datasource.GetAllRuns(ctx, limit, offset)
}

// ExportReport renders a run's report in the requested format: xml renders a
// pain.002 document, csv one row per payment, json the raw report.
func (p *Payroll) ExportReport(ctx context.Context, runID, format string) (string, string, error) {
	report, err := p.datasource.GetRunReport(ctx, runID)
	if err != nil {
		return "", "", err
	}

	switch format {
	case "xml":
		out, err := ReportToXML(report)
		return out, "application/xml", err
	case "csv":
		out, err := ReportToCSV(report)
		return out, "text/csv", err
	case "json", "":
		out, err := ReportToJSON(report)
		return out, "application/json", err
	default:
		return "", "", apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("unsupported export format: %s", format), nil)
	}
}

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

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"github.com/stablewallet/payroll/internal/apierror"
	"github.com/stablewallet/payroll/model"
)

func (d Datasource) RecordRun(ctx context.Context, run *model.PayrollRun, report *model.PaymentStatusReport) (*model.PayrollRun, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal report", err)
	}

	run.RunID = model.GenerateUUIDWithSuffix("run")
	run.CreatedAt = time.Now()

	_, err = d.Conn.ExecContext(ctx, `
		INSERT INTO payroll_runs (run_id, instruction_id, message_id, status, success_count, failure_count, total_fees, execution_time_ms, executed_by, report, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, run.RunID, run.InstructionID, run.MessageID, run.Status, run.SuccessCount, run.FailureCount, run.TotalFees, run.ExecutionTimeMs, run.ExecutedBy, reportJSON, run.CreatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "foreign_key_violation":
				return nil, apierror.NewAPIError(apierror.ErrNotFound, "Instruction not found for run", err)
			default:
				return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record run", err)
	}

	return run, nil
}

func (d Datasource) GetRunReport(ctx context.Context, runID string) (*model.PaymentStatusReport, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT report
		FROM payroll_runs
		WHERE run_id = $1
	`, runID)

	var reportJSON []byte
	err := row.Scan(&reportJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Run not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve run report", err)
	}

	var report model.PaymentStatusReport
	err = json.Unmarshal(reportJSON, &report)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal run report", err)
	}

	return &report, nil
}

func (d Datasource) GetAllRuns(ctx context.Context, limit, offset int) ([]model.PayrollRun, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT run_id, instruction_id, message_id, status, success_count, failure_count, total_fees, execution_time_ms, executed_by, created_at
		FROM payroll_runs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve runs", err)
	}
	defer rows.Close()

	runs := []model.PayrollRun{}

	for rows.Next() {
		run := model.PayrollRun{}
		var executedBy sql.NullString
		err = rows.Scan(&run.RunID, &run.InstructionID, &run.MessageID, &run.Status, &run.SuccessCount, &run.FailureCount, &run.TotalFees, &run.ExecutionTimeMs, &executedBy, &run.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan run data", err)
		}
		run.ExecutedBy = executedBy.String
		runs = append(runs, run)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over runs", err)
	}

	return runs, nil
}

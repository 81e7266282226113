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

func (d Datasource) RecordInstruction(ctx context.Context, instruction *model.PaymentInstruction) (*model.InstructionRecord, error) {
	documentJSON, err := json.Marshal(instruction)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal instruction", err)
	}

	record := &model.InstructionRecord{
		InstructionID:        model.GenerateUUIDWithSuffix("ins"),
		MessageID:            instruction.MessageID,
		NumberOfTransactions: instruction.NumberOfTransactions,
		CreatedAt:            time.Now(),
		Instruction:          instruction,
	}

	_, err = d.Conn.ExecContext(ctx, `
		INSERT INTO payment_instructions (instruction_id, message_id, number_of_transactions, document, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, record.InstructionID, record.MessageID, record.NumberOfTransactions, documentJSON, record.CreatedAt)

	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, apierror.NewAPIError(apierror.ErrConflict, "Instruction with this ID already exists", err)
			default:
				return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Database error occurred", err)
			}
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record instruction", err)
	}

	return record, nil
}

func (d Datasource) GetInstruction(ctx context.Context, instructionID string) (*model.InstructionRecord, error) {
	record := model.InstructionRecord{}

	row := d.Conn.QueryRowContext(ctx, `
		SELECT instruction_id, message_id, number_of_transactions, document, created_at
		FROM payment_instructions
		WHERE instruction_id = $1
	`, instructionID)

	var documentJSON []byte
	err := row.Scan(&record.InstructionID, &record.MessageID, &record.NumberOfTransactions, &documentJSON, &record.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Instruction not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve instruction", err)
	}

	var instruction model.PaymentInstruction
	err = json.Unmarshal(documentJSON, &instruction)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal instruction document", err)
	}
	record.Instruction = &instruction

	return &record, nil
}

func (d Datasource) GetAllInstructions(ctx context.Context, limit, offset int) ([]model.InstructionRecord, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT instruction_id, message_id, number_of_transactions, created_at
		FROM payment_instructions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve instructions", err)
	}
	defer rows.Close()

	records := []model.InstructionRecord{}

	for rows.Next() {
		record := model.InstructionRecord{}
		err = rows.Scan(&record.InstructionID, &record.MessageID, &record.NumberOfTransactions, &record.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan instruction data", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over instructions", err)
	}

	return records, nil
}

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

	"github.com/stablewallet/payroll/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	instruction // Interface for instruction-related operations
	run         // Interface for payroll run operations
}

// instruction defines methods for handling uploaded payment instructions.
type instruction interface {
	RecordInstruction(ctx context.Context, instruction *model.PaymentInstruction) (*model.InstructionRecord, error) // Stores a parsed instruction
	GetInstruction(ctx context.Context, instructionID string) (*model.InstructionRecord, error)                     // Retrieves an instruction by ID
	GetAllInstructions(ctx context.Context, limit, offset int) ([]model.InstructionRecord, error)                   // Lists stored instructions, newest first
}

// run defines methods for handling payroll execution runs.
type run interface {
	RecordRun(ctx context.Context, run *model.PayrollRun, report *model.PaymentStatusReport) (*model.PayrollRun, error) // Stores an execution run with its report
	GetRunReport(ctx context.Context, runID string) (*model.PaymentStatusReport, error)                                 // Retrieves a run's status report
	GetAllRuns(ctx context.Context, limit, offset int) ([]model.PayrollRun, error)                                      // Lists runs, newest first
}

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
package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Execution modes. Batch submits one transfer per payment; bundle submits
// the whole instruction as a single atomic transaction.
const (
	ModeBatch  = "batch"
	ModeBundle = "bundle"
)

// ValidateInstructionRequest asks for a pre-flight check of a stored
// instruction against an employer account's balance.
type ValidateInstructionRequest struct {
	Account string `json:"account"`
}

func (r *ValidateInstructionRequest) ValidateRequest() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Account, validation.Required),
	)
}

// ExecuteInstructionRequest triggers execution of a stored instruction.
// Mode defaults to batch when omitted.
type ExecuteInstructionRequest struct {
	Account string `json:"account"`
	Mode    string `json:"mode"`
}

func (r *ExecuteInstructionRequest) ValidateRequest() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Account, validation.Required),
		validation.Field(&r.Mode, validation.In(ModeBatch, ModeBundle)),
	)
}

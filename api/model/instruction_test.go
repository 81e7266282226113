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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateInstructionRequest(t *testing.T) {
	valid := ValidateInstructionRequest{Account: "0xemployer"}
	assert.NoError(t, valid.ValidateRequest())

	missing := ValidateInstructionRequest{}
	assert.Error(t, missing.ValidateRequest())
}

func TestExecuteInstructionRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     ExecuteInstructionRequest
		wantErr bool
	}{
		{name: "batch mode", req: ExecuteInstructionRequest{Account: "0xemployer", Mode: ModeBatch}},
		{name: "bundle mode", req: ExecuteInstructionRequest{Account: "0xemployer", Mode: ModeBundle}},
		{name: "mode omitted defaults to batch", req: ExecuteInstructionRequest{Account: "0xemployer"}},
		{name: "unknown mode", req: ExecuteInstructionRequest{Account: "0xemployer", Mode: "parallel"}, wantErr: true},
		{name: "missing account", req: ExecuteInstructionRequest{Mode: ModeBatch}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.ValidateRequest()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

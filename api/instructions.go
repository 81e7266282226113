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
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	model2 "github.com/stablewallet/payroll/api/model"
	"github.com/stablewallet/payroll/internal/apierror"
)

// UploadInstruction accepts a pain.001 document, XML or JSON, as the raw
// request body. The stored record with its generated ID comes back on 201.
func (a Api) UploadInstruction(c *gin.Context) {
	content, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(content) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body is required"})
		return
	}

	record, err := a.payroll.UploadInstruction(c.Request.Context(), content)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (a Api) GetInstruction(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	record, err := a.payroll.GetInstruction(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (a Api) GetAllInstructions(c *gin.Context) {
	limit, offset := pagination(c)
	records, err := a.payroll.GetAllInstructions(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

// ValidateInstruction runs the pre-flight checks without executing anything.
// The response always comes back 200; callers inspect the valid flag.
func (a Api) ValidateInstruction(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var req model2.ValidateInstructionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	result, err := a.payroll.PreflightInstruction(c.Request.Context(), id, req.Account)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExecuteInstruction runs a stored instruction and responds with the final
// status report once every payment has reached a terminal state.
func (a Api) ExecuteInstruction(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var req model2.ExecuteInstructionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	report, run, err := a.payroll.ExecuteInstruction(c.Request.Context(), id, req.Account, req.Mode, nil)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"run_id": run.RunID, "report": report})
}

func (a Api) GetAllRuns(c *gin.Context) {
	limit, offset := pagination(c)
	runs, err := a.payroll.GetAllRuns(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, runs)
}

func (a Api) GetRunReport(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	report, err := a.payroll.GetReport(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportRunReport streams a run's report in the format given by the format
// query parameter: xml, csv or json (the default).
func (a Api) ExportRunReport(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	out, contentType, err := a.payroll.ExportReport(c.Request.Context(), id, c.Query("format"))
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, contentType, []byte(out))
}

func (a Api) GetBalance(c *gin.Context) {
	account, passed := c.Params.Get("account")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account is required. pass account in the route /:account/:token"})
		return
	}
	token, passed := c.Params.Get("token")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required. pass token in the route /:account/:token"})
		return
	}

	balance, err := a.payroll.AvailableBalance(c.Request.Context(), account, token)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account, "token": token, "balance": balance})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

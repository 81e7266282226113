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
	"github.com/gin-gonic/gin"

	"github.com/stablewallet/payroll"
	"github.com/stablewallet/payroll/api/middleware"
	"github.com/stablewallet/payroll/config"
)

type Api struct {
	payroll *payroll.Payroll
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/instructions", a.UploadInstruction)
	router.GET("/instructions/:id", a.GetInstruction)
	router.GET("/instructions", a.GetAllInstructions)
	router.POST("/instructions/:id/validate", a.ValidateInstruction)
	router.POST("/instructions/:id/execute", a.ExecuteInstruction)

	router.GET("/runs", a.GetAllRuns)
	router.GET("/runs/:id", a.GetRunReport)
	router.GET("/runs/:id/export", a.ExportRunReport)

	router.GET("/balances/:account/:token", a.GetBalance)
	return a.router
}

func NewAPI(p *payroll.Payroll) (*Api, error) {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	r := gin.Default()
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{payroll: p, router: r}, nil
}

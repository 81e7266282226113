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

package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/stablewallet/payroll/api"
	"github.com/stablewallet/payroll/config"
)

func initializeRouter(p *payrollInstance) (*gin.Engine, error) {
	service, err := api.NewAPI(p.payroll)
	if err != nil {
		return nil, err
	}
	return service.Router(), nil
}

func startServer(router *gin.Engine, cfg config.ServerConfig) error {
	log.Printf("Starting server on http://localhost:%s", cfg.Port)
	return router.Run(":" + cfg.Port)
}

// serverCommands defines the "start" command that runs the HTTP API.
func serverCommands(p *payrollInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start payroll server",
		Run: func(cmd *cobra.Command, args []string) {
			router, err := initializeRouter(p)
			if err != nil {
				log.Fatal(err)
			}
			if err := startServer(router, p.cnf.Server); err != nil {
				log.Fatal(err)
			}
		},
	}

	return cmd
}

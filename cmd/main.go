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
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stablewallet/payroll"
	"github.com/stablewallet/payroll/config"
	"github.com/stablewallet/payroll/database"
	"github.com/stablewallet/payroll/internal/notification"
)

// App represents the CLI application, encapsulating the root Cobra command.
type App struct {
	cmd *cobra.Command
}

// payrollInstance holds the Payroll instance and its configuration, shared
// across subcommands once preRun has initialized them.
type payrollInstance struct {
	payroll *payroll.Payroll
	cnf     *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error using Logrus.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun sets up the configuration and initializes the Payroll instance
// before running any command that needs the full service.
func preRun(app *payrollInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig(*configFile)
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newPayroll, err := setupPayroll(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.payroll = newPayroll
		app.cnf = cnf

		return nil
	}
}

// setupPayroll creates and initializes a new Payroll instance based on the
// provided configuration, connecting to the data source first.
func setupPayroll(cfg *config.Configuration) (*payroll.Payroll, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newPayroll, err := payroll.NewPayroll(db)
	if err != nil {
		return nil, fmt.Errorf("error creating payroll: %v", err)
	}
	return newPayroll, nil
}

// NewCLI creates the command-line interface for the payroll application,
// wiring the server, worker and instruction subcommands.
func NewCLI() *App {
	var configFile string
	p := &payrollInstance{}

	var rootCmd = &cobra.Command{
		Use:   "payroll",
		Short: "Stablecoin payroll engine",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./payroll.json", "Configuration file for the payroll engine")

	rootCmd.PersistentPreRunE = preRun(p, &configFile)

	rootCmd.AddCommand(serverCommands(p))
	rootCmd.AddCommand(workerCommands(p))
	rootCmd.AddCommand(instructionCommands(p))
	rootCmd.AddCommand(balanceCommands(p))

	return &App{cmd: rootCmd}
}

// executeCLI runs the root command, handling any errors that occur during execution.
func (a App) executeCLI() {
	if err := a.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}

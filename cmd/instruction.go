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
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/stablewallet/payroll"
	"github.com/stablewallet/payroll/model"
)

// instructionCommands groups the one-shot instruction operations: parse,
// upload, validate, execute and export.
func instructionCommands(p *payrollInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instructions",
		Short: "manage payment instructions",
	}

	cmd.AddCommand(parseCommand())
	cmd.AddCommand(uploadCommand(p))
	cmd.AddCommand(validateCommand(p))
	cmd.AddCommand(executeCommand(p))
	cmd.AddCommand(exportCommand(p))

	return cmd
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}

func parseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "parse a pain.001 file and print the normalized instruction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			content, err := os.ReadFile(args[0])
			if err != nil {
				log.Fatal(err)
			}
			instruction, err := payroll.ParsePain001(content)
			if err != nil {
				log.Fatal(err)
			}
			printJSON(instruction)
		},
	}
}

func uploadCommand(p *payrollInstance) *cobra.Command {
	return &cobra.Command{
		Use:   "upload [file]",
		Short: "parse and store a pain.001 file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			content, err := os.ReadFile(args[0])
			if err != nil {
				log.Fatal(err)
			}
			record, err := p.payroll.UploadInstruction(context.Background(), content)
			if err != nil {
				log.Fatal(err)
			}
			printJSON(record)
		},
	}
}

func validateCommand(p *payrollInstance) *cobra.Command {
	var account string
	cmd := &cobra.Command{
		Use:   "validate [instruction-id]",
		Short: "run pre-flight checks for a stored instruction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result, err := p.payroll.PreflightInstruction(context.Background(), args[0], account)
			if err != nil {
				log.Fatal(err)
			}
			printJSON(result)
			if !result.Valid {
				os.Exit(1)
			}
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "employer account address")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func executeCommand(p *payrollInstance) *cobra.Command {
	var account, mode string
	cmd := &cobra.Command{
		Use:   "execute [instruction-id]",
		Short: "execute a stored instruction and print the status report",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			onProgress := func(progress model.BatchProgress) {
				fmt.Printf("\rbatch %d/%d  payment %d/%d  (%d ok, %d failed)",
					progress.CurrentBatch, progress.TotalBatches,
					progress.CurrentTransaction, progress.TotalTransactions,
					progress.CompletedTransactions, progress.FailedTransactions)
			}

			report, run, err := p.payroll.ExecuteInstruction(context.Background(), args[0], account, mode, onProgress)
			fmt.Println()
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("run %s finished\n", run.RunID)
			printJSON(report)
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "employer account address")
	cmd.Flags().StringVar(&mode, "mode", payroll.ModeBatch, "execution mode: batch or bundle")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func exportCommand(p *payrollInstance) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "export a run's status report as xml, csv or json",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			out, _, err := p.payroll.ExportReport(context.Background(), args[0], format)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Println(out)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "export format: xml, csv or json")
	return cmd
}

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
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

// balanceCommands defines the "balance" command for a one-shot employer
// balance check through the wallet gateway.
func balanceCommands(p *payrollInstance) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [account] [token]",
		Short: "check an account's token balance",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			balance, err := p.payroll.AvailableBalance(context.Background(), args[0], args[1])
			if err != nil {
				log.Fatal(err)
			}
			fmt.Println(balance)
		},
	}
}

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

package payroll

import (
	"github.com/stablewallet/payroll/database"
	"github.com/stablewallet/payroll/internal/cache"
	"github.com/stablewallet/payroll/wallet"
)

// Payroll represents the main struct for the payroll application.
type Payroll struct {
	datasource database.IDataSource
	cache      cache.Cache
	wallet     *wallet.Client
}

// NewPayroll initializes a new instance of Payroll with the provided database
// datasource. It fetches the configuration and wires up the balance cache and
// the wallet gateway client.
func NewPayroll(db database.IDataSource) (*Payroll, error) {
	newCache, err := cache.NewCache()
	if err != nil {
		return nil, err
	}
	walletClient, err := wallet.NewClient()
	if err != nil {
		return nil, err
	}
	newPayroll := &Payroll{datasource: db, cache: newCache, wallet: walletClient}
	return newPayroll, nil
}

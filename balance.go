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
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stablewallet/payroll/internal/apierror"
	"github.com/stablewallet/payroll/internal/cache"
)

// balanceCacheTTL is short on purpose. Balances move with every executed
// payment, so a stale read quickly turns into a false pre-flight pass.
const balanceCacheTTL = 10 * time.Second

// AvailableBalance returns the employer account's balance for a token as a
// decimal string. Reads go through the cache first; a miss falls through to
// the wallet gateway and the result is cached for the TTL.
func (p *Payroll) AvailableBalance(ctx context.Context, account, token string) (string, error) {
	key := fmt.Sprintf("balance:%s:%s", account, token)

	var balance string
	err := p.cache.Get(ctx, key, &balance)
	if err == nil && balance != "" {
		return balance, nil
	}
	if err != nil && !cache.IsMiss(err) {
		logrus.Warnf("balance cache read failed: %v", err)
	}

	balance, err = p.wallet.GetBalance(ctx, account, token)
	if err != nil {
		return "", apierror.NewAPIError(apierror.ErrGateway, fmt.Sprintf("wallet gateway balance lookup failed for %s", account), err)
	}

	if err := p.cache.Set(ctx, key, balance, balanceCacheTTL); err != nil {
		logrus.Warnf("balance cache write failed: %v", err)
	}
	return balance, nil
}

// InvalidateBalance drops the cached balance for an account and token. Called
// after executing a run so the next pre-flight check reads fresh state.
func (p *Payroll) InvalidateBalance(ctx context.Context, account, token string) {
	key := fmt.Sprintf("balance:%s:%s", account, token)
	if err := p.cache.Delete(ctx, key); err != nil {
		logrus.Warnf("balance cache invalidation failed: %v", err)
	}
}

package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"staysync/internal/adapters/observability"
	"staysync/internal/domain"
)

type WalletState struct {
	Wallet       *domain.WalletData   `json:"wallet"`
	Transactions []domain.Transaction `json:"transactions"`
	Loading      bool                 `json:"loading"`
	Refreshing   bool                 `json:"refreshing"`
	Err          string               `json:"error"`
}

// Wallet fetches the balance and the transaction history in parallel and
// commits them as one snapshot. The wallet is never mutated locally.
type Wallet struct {
	mu  sync.Mutex
	seq uint64
	st  WalletState
	api domain.APIClient
}

func NewWallet(api domain.APIClient) *Wallet {
	return &Wallet{api: api}
}

func (w *Wallet) Fetch(ctx context.Context, refresh bool) {
	w.mu.Lock()
	w.seq++
	seq := w.seq
	if refresh {
		w.st.Refreshing = true
	} else {
		w.st.Loading = true
	}
	w.st.Err = ""
	w.mu.Unlock()

	var (
		wd  domain.WalletData
		txs []domain.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		env, err := w.api.Get(gctx, "/api/v1/wallet", nil)
		if err != nil {
			return err
		}
		if !env.Success {
			return errors.New(orMsg(env.Error, "wallet fetch failed"))
		}
		return json.Unmarshal(env.Data, &wd)
	})
	g.Go(func() error {
		env, err := w.api.Get(gctx, "/api/v1/wallet/transactions", nil)
		if err != nil {
			return err
		}
		if !env.Success {
			return errors.New(orMsg(env.Error, "transactions fetch failed"))
		}
		var data struct {
			Transactions []domain.Transaction `json:"transactions"`
		}
		if jerr := json.Unmarshal(env.Data, &data); jerr != nil {
			return jerr
		}
		txs = data.Transactions
		return nil
	})
	err := g.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	if seq != w.seq {
		observability.ObserveStoreFetch("wallet", "stale")
		return
	}
	if err != nil {
		w.st = WalletState{Err: "Failed to fetch wallet data"}
		observability.ObserveStoreFetch("wallet", "error")
		return
	}
	w.st = WalletState{Wallet: &wd, Transactions: txs}
	observability.ObserveStoreFetch("wallet", "ok")
}

func (w *Wallet) Refresh(ctx context.Context) { w.Fetch(ctx, true) }

func (w *Wallet) State() WalletState {
	w.mu.Lock()
	defer w.mu.Unlock()
	snap := w.st
	if len(w.st.Transactions) > 0 {
		snap.Transactions = make([]domain.Transaction, len(w.st.Transactions))
		copy(snap.Transactions, w.st.Transactions)
	}
	return snap
}

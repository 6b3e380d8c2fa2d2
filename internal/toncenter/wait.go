package toncenter

import (
	"context"
	"errors"
	"time"

	"github.com/Mohsinsiddi/tonscope/internal/ton"
)

// ErrNotConfirmed is returned by WaitForTransaction when ctx ends before the
// transaction shows up.
var ErrNotConfirmed = errors.New("transaction confirmation timeout")

// waitScanLimit is how many recent transactions each poll inspects.
const waitScanLimit = 20

// FindTransaction looks for hash among the latest transactions of address.
// hash may be the transaction hash or the hash of its incoming message, in
// hex or base64. Returns nil without error when it is not there yet.
func (c *Client) FindTransaction(ctx context.Context, address, hash string) (*ton.RawTransaction, error) {
	txs, err := c.GetTransactions(ctx, TransactionsQuery{
		Address:  address,
		Limit:    waitScanLimit,
		Archival: true,
	})
	if err != nil {
		return nil, err
	}
	for i := range txs {
		if matchesHash(txs[i], hash) {
			return &txs[i], nil
		}
	}
	return nil, nil
}

func matchesHash(tx ton.RawTransaction, hash string) bool {
	if id := tx.ID(); id != "" && ton.SameHash(id, hash) {
		return true
	}
	if tx.InMsg != nil && tx.InMsg.Hash != nil && ton.SameHash(*tx.InMsg.Hash, hash) {
		return true
	}
	return false
}

// WaitForTransaction polls FindTransaction every interval until the
// transaction appears or ctx is done. Poll errors are logged and polling goes
// on; the caller bounds the wait with a ctx deadline.
func (c *Client) WaitForTransaction(ctx context.Context, address, hash string, interval time.Duration) (*ton.RawTransaction, error) {
	if address == "" {
		return nil, ErrAddressRequired
	}
	if _, err := ton.NormalizeHash(hash); err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for attempt := 1; ; attempt++ {
		tx, err := c.FindTransaction(ctx, address, hash)
		switch {
		case err != nil && ctx.Err() == nil:
			c.logger.WarnContext(ctx, "confirmation poll failed", "attempt", attempt, "error", err)
		case tx != nil:
			c.logger.DebugContext(ctx, "transaction confirmed", "hash", hash, "attempts", attempt)
			return tx, nil
		}

		select {
		case <-ctx.Done():
			return nil, ErrNotConfirmed
		case <-ticker.C:
		}
	}
}

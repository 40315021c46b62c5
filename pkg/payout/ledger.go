package payout

import (
	"context"
	"fmt"
	"sync"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	log "github.com/sirupsen/logrus"
)

// ReceiveHook runs when an address is credited. Returning an error reverts
// the transfer.
type ReceiveHook func(ctx context.Context, amount uint64) error

// Ledger is an in-memory funds transport. Receivers may run code on every
// credit, including calls back into the lottery.
type Ledger struct {
	mu       sync.Mutex
	balances map[models.Address]uint64
	hooks    map[models.Address]ReceiveHook
	logger   *log.Entry
}

func NewLedger() *Ledger {
	return &Ledger{
		balances: make(map[models.Address]uint64),
		hooks:    make(map[models.Address]ReceiveHook),
		logger:   log.WithField("component", "ledger"),
	}
}

// OnReceive installs the hook run when addr is credited
func (l *Ledger) OnReceive(addr models.Address, hook ReceiveHook) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks[addr] = hook
}

func (l *Ledger) Balance(addr models.Address) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[addr]
}

// Transfer credits to with amount, then runs its receive hook outside the lock
func (l *Ledger) Transfer(ctx context.Context, to models.Address, amount uint64) error {
	l.mu.Lock()
	balance := l.balances[to]
	if balance+amount < balance {
		l.mu.Unlock()
		return fmt.Errorf("balance of %s overflows", to)
	}
	l.balances[to] = balance + amount
	hook := l.hooks[to]
	l.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, amount); err != nil {
			l.mu.Lock()
			l.balances[to] -= amount
			l.mu.Unlock()
			return fmt.Errorf("receiver %s rejected transfer: %w", to, err)
		}
	}

	l.logger.WithFields(log.Fields{"to": to, "amount": amount}).Debug("transfer settled")
	return nil
}

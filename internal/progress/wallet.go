package progress

import (
	"errors"
	"fmt"

	"github.com/phamduncc/find-word/internal/game"
)

var (
	// ErrInsufficientCoins is returned by Purchase when the balance is too low.
	ErrInsufficientCoins = errors.New("insufficient coins")
	// ErrNoInventory is returned by Use when no power-up of the kind is owned.
	ErrNoInventory = errors.New("no power-up in inventory")
)

const (
	// StartingCoins is the balance of a new wallet.
	StartingCoins = 100
	// coinsPerScore converts game score to coins.
	coinsPerScore = 10
)

// CoinsForScore is the coins a finished game earns.
func CoinsForScore(score int) int {
	return max(score, 0) / coinsPerScore
}

// Wallet is a coin balance and the power-ups bought with it.
type Wallet struct {
	Coins     int                      `json:"coins"`
	Inventory map[game.PowerUpKind]int `json:"inventory"`
}

// NewWallet returns a wallet holding StartingCoins.
func NewWallet() *Wallet {
	return &Wallet{Coins: StartingCoins, Inventory: make(map[game.PowerUpKind]int)}
}

// Award adds coins. Non-positive amounts are ignored.
func (w *Wallet) Award(coins int) {
	if coins > 0 {
		w.Coins += coins
	}
}

// Purchase buys one power-up of kind.
func (w *Wallet) Purchase(kind game.PowerUpKind) error {
	cfg, ok := kind.Config()
	if !ok {
		return fmt.Errorf("%w: %q", game.ErrUnknownPowerUp, kind)
	}
	if w.Coins < cfg.Cost {
		return fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientCoins, kind, cfg.Cost, w.Coins)
	}
	if w.Inventory == nil {
		w.Inventory = make(map[game.PowerUpKind]int)
	}
	w.Coins -= cfg.Cost
	w.Inventory[kind]++
	return nil
}

// Use removes one power-up of kind from the inventory.
func (w *Wallet) Use(kind game.PowerUpKind) error {
	if w.Inventory[kind] <= 0 {
		return fmt.Errorf("%w: %s", ErrNoInventory, kind)
	}
	w.Inventory[kind]--
	if w.Inventory[kind] == 0 {
		delete(w.Inventory, kind)
	}
	return nil
}

// Count returns how many power-ups of kind are owned.
func (w *Wallet) Count(kind game.PowerUpKind) int {
	return w.Inventory[kind]
}

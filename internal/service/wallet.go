package service

import (
	"time"

	"github.com/bmukendi/coopec-service/internal/models"
)

// CreateWalletType registers a new cash pool.
func (s *Service) CreateWalletType(name, description string) (*models.WalletType, error) {
	if name == "" {
		return nil, models.NewValidationError("name", "wallet name is required")
	}
	wallet := &models.WalletType{Name: name, Description: description}
	if err := s.repo.CreateWalletType(wallet); err != nil {
		return nil, err
	}
	s.log.Infof("Wallet type created: %s", wallet.Name)
	return wallet, nil
}

// ListWalletTypes returns all cash pools.
func (s *Service) ListWalletTypes() ([]models.WalletType, error) {
	return s.repo.ListWalletTypes()
}

// WalletBalance derives a wallet's position by scanning its movements,
// optionally date filtered. Read-only and deterministic for a given
// movement set; balances are never stored.
func (s *Service) WalletBalance(walletID int64, from, to *time.Time) (*models.WalletBalance, error) {
	if _, err := s.repo.FindWalletTypeByID(walletID); err != nil {
		return nil, err
	}
	lines, err := s.repo.ListMovementLines(walletID, from, to)
	if err != nil {
		return nil, err
	}
	balance := models.ComputeWalletBalance(lines)
	return &balance, nil
}

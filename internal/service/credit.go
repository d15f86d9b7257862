package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmukendi/coopec-service/internal/models"
)

// walletFloor is the minimum balance a wallet must keep after a credit is
// disbursed. A hard business rule, not a warning.
var walletFloor = decimal.RequireFromString("1.00")

// GrantInput is the request to grant a credit.
type GrantInput struct {
	MemberID     *int64
	ClientID     *int64
	WalletID     int64
	Principal    decimal.Decimal
	RatePct      decimal.Decimal
	Duration     int
	DurationUnit models.DurationUnit
	Method       models.InterestMethod
	GrantDate    time.Time
}

func validateGrantInput(in GrantInput) error {
	if (in.MemberID == nil) == (in.ClientID == nil) {
		return models.NewValidationError("borrower", "exactly one of member_id and client_id is required")
	}
	if in.WalletID <= 0 {
		return models.NewValidationError("wallet_id", "wallet is required")
	}
	if !in.Principal.IsPositive() {
		return models.NewValidationError("principal", "principal must be greater than zero")
	}
	if in.RatePct.IsNegative() {
		return models.NewValidationError("rate_pct", "interest rate cannot be negative")
	}
	if in.Duration <= 0 {
		return models.NewValidationError("duration", "duration must be greater than zero")
	}
	if !in.DurationUnit.Valid() {
		return models.NewValidationError("duration_unit", "unknown duration unit %q", in.DurationUnit)
	}
	if !in.Method.Valid() {
		return models.NewValidationError("interest_method", "unknown interest method %q", in.Method)
	}
	return nil
}

// checkWalletSufficiency rejects a disbursement the wallet cannot carry:
// the principal must be strictly below the available balance, and the
// wallet must keep at least the floor after disbursement. The headroom on
// the returned error is the largest principal that would pass.
func checkWalletSufficiency(available, principal decimal.Decimal) error {
	headroom := available.Sub(walletFloor)
	if headroom.IsNegative() {
		headroom = decimal.Zero
	}
	if principal.GreaterThanOrEqual(available) {
		return models.NewBusinessRuleError("insufficient_wallet_balance", headroom,
			"requested principal %s is not below the available balance %s", principal, available)
	}
	if available.Sub(principal).LessThan(walletFloor) {
		return models.NewBusinessRuleError("wallet_floor", headroom,
			"disbursing %s would leave %s in the wallet, below the %s floor",
			principal, available.Sub(principal), walletFloor)
	}
	return nil
}

// GrantCredit creates a credit and its paired wallet movement in one
// transaction, after checking the target wallet can carry the
// disbursement. The balance check reads committed state; under concurrent
// grants it can be slightly stale, which the cooperative accepts.
func (s *Service) GrantCredit(ctx context.Context, in GrantInput) (*models.Credit, error) {
	if err := validateGrantInput(in); err != nil {
		return nil, err
	}

	wallet, err := s.repo.FindWalletTypeByID(in.WalletID)
	if err != nil {
		return nil, err
	}

	balance, err := s.WalletBalance(in.WalletID, nil, nil)
	if err != nil {
		return nil, err
	}
	if err := checkWalletSufficiency(balance.Available, in.Principal); err != nil {
		s.log.Infof("Credit refused on wallet %s: %v", wallet.Name, err)
		return nil, err
	}

	grantDate := in.GrantDate
	if grantDate.IsZero() {
		grantDate = time.Now()
	}

	credit := &models.Credit{
		MemberID:     in.MemberID,
		ClientID:     in.ClientID,
		Principal:    in.Principal,
		RatePct:      in.RatePct,
		Duration:     in.Duration,
		DurationUnit: in.DurationUnit,
		Method:       in.Method,
		GrantDate:    grantDate,
		Status:       models.StatusOngoing,
		Score:        decimal.NewFromFloat(10.0),
	}
	credit.MaturityDate = credit.MaturityFrom(grantDate)
	credit.RemainingBalance = credit.InitialBalance()

	err = s.repo.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.repo.CreateCreditTx(tx, credit); err != nil {
			return err
		}
		movement := &models.WalletMovement{
			WalletID: in.WalletID,
			Source:   models.SourceRef{Kind: models.SourceCredit, ID: credit.ID},
			Date:     grantDate,
		}
		_, err := s.repo.FindOrCreateMovementTx(tx, movement)
		return err
	})
	if err != nil {
		return nil, err
	}

	contact := s.borrowerContact(credit)
	s.emit(models.LedgerEvent{
		Type:          models.EventCreditGranted,
		Credit:        *credit,
		BorrowerName:  contact.Name,
		BorrowerEmail: contact.Email,
		Amount:        credit.EffectiveDisbursed(),
	})

	s.log.Infof("Credit %d granted: %s %s on wallet %s, due %s",
		credit.ID, credit.Principal, credit.Method, wallet.Name,
		credit.MaturityDate.Format("2006-01-02"))
	return credit, nil
}

// Repay records a repayment against a credit, updates its balance, status
// and score, and links the movement, all in one transaction. When walletID
// is zero the money flows back into the wallet that disbursed the credit.
func (s *Service) Repay(ctx context.Context, creditID int64, amount decimal.Decimal, settlementDate time.Time, walletID int64) (*models.Repayment, error) {
	if !amount.IsPositive() {
		return nil, models.NewValidationError("amount", "repayment amount must be greater than zero")
	}

	credit, err := s.repo.FindCreditByID(creditID)
	if err != nil {
		return nil, err
	}
	if credit.Status == models.StatusSettled {
		return nil, models.NewBusinessRuleError("credit_settled", decimal.Zero,
			"credit %d is already fully repaid", creditID)
	}

	var newBalance decimal.Decimal
	switch credit.Method {
	case models.MethodPrecompte:
		// The full principal is payable; the interest was withheld at
		// disbursement.
		paid, err := s.repo.SumRepayments(creditID)
		if err != nil {
			return nil, err
		}
		remaining := credit.Principal.Sub(paid)
		if paid.Add(amount).GreaterThan(credit.Principal) {
			return nil, models.NewBusinessRuleError("over_repayment", remaining,
				"repaying %s would exceed the %s payable on this credit; %s already repaid, %s remaining",
				amount, credit.Principal, paid, remaining)
		}
		newBalance = remaining.Sub(amount)
	default:
		if amount.GreaterThan(credit.RemainingBalance) {
			return nil, models.NewBusinessRuleError("over_repayment", credit.RemainingBalance,
				"repayment %s exceeds the remaining balance %s", amount, credit.RemainingBalance)
		}
		newBalance = credit.RemainingBalance.Sub(amount)
	}

	if settlementDate.IsZero() {
		settlementDate = time.Now()
	}
	if walletID == 0 {
		walletID, err = s.repo.FindCreditWalletID(creditID)
		if err != nil {
			return nil, err
		}
	} else if _, err := s.repo.FindWalletTypeByID(walletID); err != nil {
		return nil, err
	}

	repayment := &models.Repayment{
		CreditID:       creditID,
		Amount:         amount,
		SettlementDate: settlementDate,
	}

	settled := newBalance.LessThanOrEqual(decimal.Zero)
	if settled {
		credit.RemainingBalance = decimal.Zero
		credit.Status = models.StatusSettled
		credit.Score = models.ScoreForSettlement(settlementDate, credit.MaturityDate)
		credit.FinalSettlementDate = &settlementDate
	} else {
		credit.RemainingBalance = newBalance
		credit.Status = models.StatusFor(newBalance, credit.MaturityDate, time.Now())
	}

	err = s.repo.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.repo.CreateRepaymentTx(tx, repayment); err != nil {
			return err
		}
		if err := s.repo.UpdateCreditStateTx(tx, credit); err != nil {
			return err
		}
		movement := &models.WalletMovement{
			WalletID: walletID,
			Source:   models.SourceRef{Kind: models.SourceRepayment, ID: repayment.ID},
			Date:     settlementDate,
		}
		_, err := s.repo.FindOrCreateMovementTx(tx, movement)
		return err
	})
	if err != nil {
		return nil, err
	}

	if settled {
		contact := s.borrowerContact(credit)
		s.emit(models.LedgerEvent{
			Type:          models.EventCreditSettled,
			Credit:        *credit,
			Repayment:     repayment,
			BorrowerName:  contact.Name,
			BorrowerEmail: contact.Email,
			Amount:        amount,
		})
		s.log.Infof("Credit %d fully repaid, score %s", credit.ID, credit.Score)
	} else {
		s.log.Infof("Repayment of %s recorded on credit %d, %s remaining",
			amount, credit.ID, credit.RemainingBalance)
	}
	return repayment, nil
}

// RefreshCreditStatuses flips ongoing credits past their maturity date to
// overdue and announces each newly matured credit. Run daily by the
// scheduler.
func (s *Service) RefreshCreditStatuses(ctx context.Context) (int, error) {
	credits, err := s.repo.ListActiveCredits()
	if err != nil {
		return 0, err
	}

	today := time.Now()
	flipped := 0
	for i := range credits {
		credit := &credits[i]
		if credit.Status != models.StatusOngoing {
			continue
		}
		if credit.MaturityDate.IsZero() || !today.After(credit.MaturityDate) {
			continue
		}

		credit.Status = models.StatusOverdue
		err := s.repo.WithTx(ctx, func(tx *sql.Tx) error {
			return s.repo.UpdateCreditStateTx(tx, credit)
		})
		if err != nil {
			s.log.Errorf("Failed to mark credit %d overdue: %v", credit.ID, err)
			continue
		}
		flipped++

		contact := s.borrowerContact(credit)
		s.emit(models.LedgerEvent{
			Type:          models.EventCreditMatured,
			Credit:        *credit,
			BorrowerName:  contact.Name,
			BorrowerEmail: contact.Email,
			Amount:        credit.RemainingBalance,
		})
	}

	if flipped > 0 {
		s.log.Infof("Marked %d credit(s) overdue", flipped)
	}
	return flipped, nil
}

// MemberScore rolls up a member's credit scores into an average and a
// letter mention.
func (s *Service) MemberScore(memberID int64) (*models.BorrowerScore, error) {
	if _, err := s.repo.FindMemberRef(memberID); err != nil {
		return nil, err
	}
	credits, err := s.repo.ListCreditsByMember(memberID)
	if err != nil {
		return nil, err
	}
	score := models.RollupScore(credits)
	return &score, nil
}

// ClientScore rolls up a client's credit scores.
func (s *Service) ClientScore(clientID int64) (*models.BorrowerScore, error) {
	if _, err := s.repo.FindClientRef(clientID); err != nil {
		return nil, err
	}
	credits, err := s.repo.ListCreditsByClient(clientID)
	if err != nil {
		return nil, err
	}
	score := models.RollupScore(credits)
	return &score, nil
}

// ListCredits returns all credits, most recent first.
func (s *Service) ListCredits() ([]models.Credit, error) {
	return s.repo.ListCredits()
}

// FindCredit returns one credit by id.
func (s *Service) FindCredit(id int64) (*models.Credit, error) {
	return s.repo.FindCreditByID(id)
}

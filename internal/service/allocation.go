package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmukendi/coopec-service/internal/models"
	"github.com/bmukendi/coopec-service/internal/utils"
)

var oneHundred = decimal.NewFromInt(100)

// borrowerKey identifies a borrower across credits: members and clients
// live in separate ID spaces.
type borrowerKey struct {
	memberID int64
	clientID int64
}

func keyFor(c *models.Credit) borrowerKey {
	var k borrowerKey
	if c.MemberID != nil {
		k.memberID = *c.MemberID
	}
	if c.ClientID != nil {
		k.clientID = *c.ClientID
	}
	return k
}

// InterestReport computes the interest of every credit and rolls it up per
// borrower. Interest is derived from principal and rate on the fly, never
// read from storage.
func (s *Service) InterestReport() (*models.InterestReport, error) {
	credits, err := s.repo.ListCredits()
	if err != nil {
		return nil, err
	}
	report := buildInterestReport(credits, s.borrowerRef)
	return report, nil
}

// borrowerRef resolves a display label for a credit's borrower. A lookup
// failure degrades to an unnamed label rather than failing the report.
func (s *Service) borrowerRef(c *models.Credit) models.BorrowerRef {
	ref := models.BorrowerRef{MemberID: c.MemberID, ClientID: c.ClientID}
	if c.MemberID != nil {
		if m, err := s.repo.FindMemberRef(*c.MemberID); err == nil {
			ref.Number = m.Number
			ref.Name = m.Name
		}
		return ref
	}
	if c.ClientID != nil {
		if cl, err := s.repo.FindClientRef(*c.ClientID); err == nil {
			ref.Number = cl.Number
			ref.Name = cl.Name
		}
	}
	return ref
}

func buildInterestReport(credits []models.Credit, label func(*models.Credit) models.BorrowerRef) *models.InterestReport {
	report := &models.InterestReport{
		GrandTotal:  decimal.Zero,
		CreditCount: len(credits),
	}
	perBorrower := make(map[borrowerKey]*models.BorrowerInterestRow)
	var order []borrowerKey

	for i := range credits {
		c := &credits[i]
		interest := c.Interest()
		ref := label(c)

		report.PerCredit = append(report.PerCredit, models.CreditInterestRow{
			CreditID:  c.ID,
			Borrower:  ref,
			Principal: c.Principal,
			RatePct:   c.RatePct,
			Interest:  interest,
		})
		report.GrandTotal = report.GrandTotal.Add(interest)

		key := keyFor(c)
		row, ok := perBorrower[key]
		if !ok {
			row = &models.BorrowerInterestRow{Borrower: ref, InterestTotal: decimal.Zero}
			perBorrower[key] = row
			order = append(order, key)
		}
		row.InterestTotal = row.InterestTotal.Add(interest)
		row.CreditCount++
	}

	for _, key := range order {
		report.PerBorrower = append(report.PerBorrower, *perBorrower[key])
	}
	return report
}

// DefaultFeePct is the configured management-fee percentage, used when a
// caller does not override it.
func (s *Service) DefaultFeePct() decimal.Decimal {
	return decimal.NewFromInt(int64(s.config.DefaultFeePct))
}

// ManagementFeeReport derives the cooperative's fee pool: a percentage of
// the global interest plus the membership fees, minus what the recorded
// expenses already consumed. Nothing here is persisted.
func (s *Service) ManagementFeeReport(feePct decimal.Decimal, year int) (*models.ManagementFeeReport, error) {
	if feePct.IsNegative() || feePct.GreaterThan(oneHundred) {
		return nil, models.NewValidationError("fee_pct", "fee percentage must be between 0 and 100")
	}

	interest, err := s.InterestReport()
	if err != nil {
		return nil, err
	}
	fees, err := s.repo.ListMembershipFees(year)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.ListExpenses()
	if err != nil {
		return nil, err
	}

	membershipTotal := decimal.Zero
	for i := range fees {
		membershipTotal = membershipTotal.Add(fees[i].Amount)
	}
	// expenses always draw on the pool in full; only the membership fees
	// take the optional year filter
	expensesTotal := decimal.Zero
	for i := range expenses {
		expensesTotal = expensesTotal.Add(expenses[i].Total())
	}

	feeOnInterest := interest.GrandTotal.Mul(feePct).Div(oneHundred)
	feeTotal := feeOnInterest.Add(membershipTotal)
	available := feeTotal.Sub(expensesTotal)
	if available.IsNegative() {
		available = decimal.Zero
	}

	report := &models.ManagementFeeReport{
		FeePct:             feePct,
		Year:               year,
		InterestGrandTotal: interest.GrandTotal,
		FeeOnInterest:      feeOnInterest,
		MembershipFees:     membershipTotal,
		FeeTotal:           feeTotal,
		ExpensesTotal:      expensesTotal,
		FeeAvailable:       available,
		PerBorrowerShare:   buildFeeShares(interest.PerBorrower, interest.GrandTotal, feeOnInterest),
	}
	return report, nil
}

// buildFeeShares splits the interest part of the fee across borrowers in
// proportion to the interest each one generated.
func buildFeeShares(perBorrower []models.BorrowerInterestRow, grandTotal, feeOnInterest decimal.Decimal) []models.BorrowerFeeShare {
	shares := make([]models.BorrowerFeeShare, 0, len(perBorrower))
	for _, row := range perBorrower {
		share := models.BorrowerFeeShare{
			Borrower:      row.Borrower,
			InterestTotal: row.InterestTotal,
			Proportion:    decimal.Zero,
			FeeShare:      decimal.Zero,
		}
		if grandTotal.IsPositive() {
			share.Proportion = row.InterestTotal.Div(grandTotal)
			share.FeeShare = feeOnInterest.Mul(share.Proportion)
		}
		shares = append(shares, share)
	}
	return shares
}

// ContributionsReport aggregates each member's shares and savings over the
// requested period, then nets out the draw of their active credits. Months
// attribute share payments and savings deposits by their named month; only
// withdrawals filter on their own operation date.
func (s *Service) ContributionsReport(period utils.Period) (*models.ContributionsReport, error) {
	if err := period.Validate(); err != nil {
		return nil, models.NewValidationError("period", "%v", err)
	}

	shares, err := s.repo.ListSharePaymentRows()
	if err != nil {
		return nil, err
	}
	deposits, err := s.repo.ListSavingsDepositRows()
	if err != nil {
		return nil, err
	}
	withdrawals, err := s.repo.ListSavingsWithdrawalRows()
	if err != nil {
		return nil, err
	}
	credits, err := s.repo.ListCredits()
	if err != nil {
		return nil, err
	}
	members, err := s.repo.ListMemberRefs()
	if err != nil {
		return nil, err
	}

	report := buildContributionsReport(period, shares, deposits, withdrawals, credits, members)
	return report, nil
}

// memberTally is one member's finalized position after a single filter
// pass: gross computed, zero-gross members dropped, net clamped.
type memberTally struct {
	shares   decimal.Decimal
	blocked  decimal.Decimal
	onDemand decimal.Decimal
	gross    decimal.Decimal
	draw     decimal.Decimal
	net      decimal.Decimal
}

func (t *memberTally) add(o *memberTally) {
	t.shares = t.shares.Add(o.shares)
	t.blocked = t.blocked.Add(o.blocked)
	t.onDemand = t.onDemand.Add(o.onDemand)
	t.gross = t.gross.Add(o.gross)
	t.draw = t.draw.Add(o.draw)
	t.net = t.net.Add(o.net)
}

// tallyContributions runs one filter pass over the contribution rows. A
// zero month or year leaves that axis unfiltered. Share payments and
// savings deposits match on their named month (with the payment year and
// subscription year respectively); only withdrawals filter on their own
// operation date. Members with zero gross in the pass are dropped, active
// credits or not, and the net is clamped at zero after the draw.
func tallyContributions(
	month, year int,
	shares []models.SharePaymentRow,
	deposits []models.SavingsDepositRow,
	withdrawals []models.SavingsWithdrawalRow,
	credits []models.Credit,
) map[int64]*memberTally {
	monthName := ""
	if month != 0 {
		monthName, _ = utils.MonthName(month)
	}

	tallies := make(map[int64]*memberTally)
	get := func(memberID int64) *memberTally {
		t, ok := tallies[memberID]
		if !ok {
			t = &memberTally{}
			tallies[memberID] = t
		}
		return t
	}

	for _, row := range shares {
		if monthName != "" && row.Month != monthName {
			continue
		}
		if year != 0 && row.Date.Year() != year {
			continue
		}
		t := get(row.MemberID)
		t.shares = t.shares.Add(row.Amount)
	}

	// Deposits carry a named month but their year comes from the
	// subscription, not the deposit itself.
	for _, row := range deposits {
		if monthName != "" && row.Month != monthName {
			continue
		}
		if year != 0 && row.SubscriptionDate.Year() != year {
			continue
		}
		t := get(row.MemberID)
		if row.AccountType == models.AccountBlocked {
			t.blocked = t.blocked.Add(row.Amount)
		} else {
			t.onDemand = t.onDemand.Add(row.Amount)
		}
	}

	for _, row := range withdrawals {
		if month != 0 && int(row.Date.Month()) != month {
			continue
		}
		if year != 0 && row.Date.Year() != year {
			continue
		}
		t := get(row.MemberID)
		if row.AccountType == models.AccountBlocked {
			t.blocked = t.blocked.Sub(row.Amount)
		} else {
			t.onDemand = t.onDemand.Sub(row.Amount)
		}
	}

	// Active credits draw on contributions in every pass until settled.
	for i := range credits {
		c := &credits[i]
		if c.MemberID == nil || !c.Active() {
			continue
		}
		t := get(*c.MemberID)
		t.draw = t.draw.Add(c.OutstandingDraw())
	}

	for id, t := range tallies {
		t.gross = t.shares.Add(t.blocked).Add(t.onDemand)
		if t.gross.IsZero() {
			delete(tallies, id)
			continue
		}
		t.net = t.gross.Sub(t.draw)
		if t.net.IsNegative() {
			t.net = decimal.Zero
		}
	}
	return tallies
}

func buildContributionsReport(
	period utils.Period,
	shares []models.SharePaymentRow,
	deposits []models.SavingsDepositRow,
	withdrawals []models.SavingsWithdrawalRow,
	credits []models.Credit,
	members []models.MemberRef,
) *models.ContributionsReport {
	var tallies map[int64]*memberTally
	if period.YearOnly() {
		// A whole year is the sum of twelve independent month passes:
		// the draw offsets each month's gross separately and the zero
		// clamp applies within each month, so the annual net is not a
		// single year-wide subtraction.
		tallies = make(map[int64]*memberTally)
		for month := 1; month <= 12; month++ {
			for id, t := range tallyContributions(month, period.Year, shares, deposits, withdrawals, credits) {
				agg, ok := tallies[id]
				if !ok {
					agg = &memberTally{}
					tallies[id] = agg
				}
				agg.add(t)
			}
		}
	} else {
		tallies = tallyContributions(period.Month, period.Year, shares, deposits, withdrawals, credits)
	}

	refs := make(map[int64]models.MemberRef, len(members))
	for _, m := range members {
		refs[m.ID] = m
	}

	report := &models.ContributionsReport{
		Month:           period.Month,
		Year:            period.Year,
		TotalShares:     decimal.Zero,
		TotalBlocked:    decimal.Zero,
		TotalOnDemand:   decimal.Zero,
		TotalGross:      decimal.Zero,
		TotalActiveDraw: decimal.Zero,
		TotalNet:        decimal.Zero,
	}

	ids := make([]int64, 0, len(tallies))
	for id := range tallies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		t := tallies[id]
		ref, ok := refs[id]
		if !ok {
			ref = models.MemberRef{ID: id}
		}
		report.PerMember = append(report.PerMember, models.MemberContribution{
			Member:           ref,
			Shares:           t.shares,
			BlockedSavings:   t.blocked,
			OnDemandSavings:  t.onDemand,
			Gross:            t.gross,
			ActiveCreditDraw: t.draw,
			Net:              t.net,
		})
		report.TotalShares = report.TotalShares.Add(t.shares)
		report.TotalBlocked = report.TotalBlocked.Add(t.blocked)
		report.TotalOnDemand = report.TotalOnDemand.Add(t.onDemand)
		report.TotalGross = report.TotalGross.Add(t.gross)
		report.TotalActiveDraw = report.TotalActiveDraw.Add(t.draw)
		report.TotalNet = report.TotalNet.Add(t.net)
	}
	return report
}

// RedistributionReport attributes the net global interest (interest minus
// the management fee) to members in proportion to their net contributions
// over the period. An empty period defaults to the current month.
func (s *Service) RedistributionReport(period utils.Period, feePct decimal.Decimal) (*models.RedistributionReport, error) {
	if period.IsZero() {
		now := time.Now()
		period = utils.Period{Month: int(now.Month()), Year: now.Year()}
	}
	if err := period.Validate(); err != nil {
		return nil, models.NewValidationError("period", "%v", err)
	}

	// Interest and fees are global figures; only the contribution side of
	// the split is period-scoped.
	fee, err := s.ManagementFeeReport(feePct, 0)
	if err != nil {
		return nil, err
	}
	contributions, err := s.ContributionsReport(period)
	if err != nil {
		return nil, err
	}

	report := buildRedistributionReport(period, fee, contributions)
	return report, nil
}

func buildRedistributionReport(period utils.Period, fee *models.ManagementFeeReport, contributions *models.ContributionsReport) *models.RedistributionReport {
	// The net may go negative when the fee exceeds the interest; the
	// shortfall is distributed on the same proportions.
	netInterest := fee.InterestGrandTotal.Sub(fee.FeeTotal)

	report := &models.RedistributionReport{
		Month:                 period.Month,
		Year:                  period.Year,
		FeePct:                fee.FeePct,
		InterestGrandTotal:    fee.InterestGrandTotal,
		FeeTotal:              fee.FeeTotal,
		NetInterest:           netInterest,
		TotalNetContributions: contributions.TotalNet,
	}

	for _, member := range contributions.PerMember {
		attribution := models.MemberAttribution{
			Member:       member.Member,
			Contribution: member.Net,
			Proportion:   decimal.Zero,
			Interest:     decimal.Zero,
		}
		if contributions.TotalNet.IsPositive() {
			attribution.Proportion = member.Net.Div(contributions.TotalNet)
			attribution.Interest = netInterest.Mul(attribution.Proportion)
		}
		report.PerMember = append(report.PerMember, attribution)
	}
	return report
}

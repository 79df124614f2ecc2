package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Tier string

const (
	TierBronce Tier = "Bronce"
	TierPlata  Tier = "Plata"
	TierOro    Tier = "Oro"
)

const (
	pointsPerUnit  = 1000
	plataThreshold = 500
	oroThreshold   = 1500
)

// RecomputeBatchCap bounds the number of user writes per transaction.
const RecomputeBatchCap = 400

// CalculatePoints awards one point per full 1000 spent. Negative amounts
// earn nothing.
func CalculatePoints(amount decimal.Decimal) int {
	if amount.IsNegative() {
		return 0
	}

	return int(amount.Div(decimal.NewFromInt(pointsPerUnit)).Floor().IntPart())
}

func DetermineTier(points int) Tier {
	switch {
	case points >= oroThreshold:
		return TierOro
	case points >= plataThreshold:
		return TierPlata
	default:
		return TierBronce
	}
}

// LedgerEntry is one confirmed reservation as seen by the aggregator.
type LedgerEntry struct {
	ReservationID string
	UserID        *int
	Amount        decimal.Decimal
	CreatedAt     time.Time
}

type UserTotals struct {
	UserID     int
	TotalSpent decimal.Decimal
	VisitCount int
	LastVisit  *time.Time
	Points     int
}

func (t UserTotals) Tier() Tier {
	return DetermineTier(t.Points)
}

// FoldLedger aggregates entries per linked user. Unlinked entries are
// skipped. The result depends only on the set of entries, not their order.
func FoldLedger(entries []LedgerEntry) map[int]UserTotals {
	totals := make(map[int]UserTotals)

	for _, e := range entries {
		totals = foldEntry(totals, e)
	}

	return totals
}

func foldEntry(totals map[int]UserTotals, e LedgerEntry) map[int]UserTotals {
	if e.UserID == nil {
		return totals
	}

	t, ok := totals[*e.UserID]
	if !ok {
		t = UserTotals{UserID: *e.UserID, TotalSpent: decimal.Zero}
	}

	t.TotalSpent = t.TotalSpent.Add(e.Amount)
	t.VisitCount++
	t.Points += CalculatePoints(e.Amount)

	if t.LastVisit == nil || e.CreatedAt.After(*t.LastVisit) {
		ts := e.CreatedAt
		t.LastVisit = &ts
	}

	totals[*e.UserID] = t

	return totals
}

// LedgerFolder accumulates entries one at a time for streaming sources.
type LedgerFolder struct {
	totals map[int]UserTotals
}

func NewLedgerFolder() *LedgerFolder {
	return &LedgerFolder{totals: make(map[int]UserTotals)}
}

func (f *LedgerFolder) Add(e LedgerEntry) {
	f.totals = foldEntry(f.totals, e)
}

func (f *LedgerFolder) Totals() map[int]UserTotals {
	return f.totals
}

type RecomputeMode int

const (
	// RecomputeSpend rewrites totalSpent, visitCount and lastVisit only.
	// Points may have been redeemed outside the ledger and are left alone.
	RecomputeSpend RecomputeMode = iota
	// RecomputeFullPoints also overwrites points and tier from the ledger.
	RecomputeFullPoints
)

type RecomputeReport struct {
	Users   int
	Updated int
	Failed  int
	Batches int
}

package domain

// Verdict classifies whether the declared trading plan was followed on a
// single trade. The three-variant form (rather than *bool) makes the
// "unrecorded breaks both streaks" rule an exhaustive switch.
type Verdict int

const (
	// VerdictUnrecorded means no strategy annotation exists for the trade.
	VerdictUnrecorded Verdict = iota
	VerdictRespected
	VerdictNotRespected
)

// String returns the wire representation used in API payloads.
func (v Verdict) String() string {
	switch v {
	case VerdictRespected:
		return "respected"
	case VerdictNotRespected:
		return "not_respected"
	default:
		return "unrecorded"
	}
}

// ParseVerdict maps a tri-state import value onto a Verdict.
// Nil means the source carried no annotation.
func ParseVerdict(respected *bool) Verdict {
	switch {
	case respected == nil:
		return VerdictUnrecorded
	case *respected:
		return VerdictRespected
	default:
		return VerdictNotRespected
	}
}

// StrategyRecord is a per-trade strategy annotation.
type StrategyRecord struct {
	TradeID   string
	AccountID string
	Name      string
	Respected Verdict
}

// StrategyLookup maps trade_id to its strategy annotation. It is built by
// the caller (batched date queries against the strategy store) and passed
// into the engine explicitly, never held as ambient state.
type StrategyLookup map[string]*StrategyRecord

// VerdictFor resolves the verdict for a trade id. A missing entry is
// VerdictUnrecorded.
func (l StrategyLookup) VerdictFor(tradeID string) Verdict {
	if rec, ok := l[tradeID]; ok && rec != nil {
		return rec.Respected
	}
	return VerdictUnrecorded
}

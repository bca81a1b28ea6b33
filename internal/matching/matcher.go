package matching

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"attendancify/pkg/contracts/domain"
)

// DefaultThreshold is the minimum score for a candidate to be accepted
const DefaultThreshold = 85

// Options configures a Matcher
type Options struct {
	// Threshold is the inclusive acceptance cutoff. Zero means DefaultThreshold.
	Threshold int
	// Exclusive removes an accepted raw record from candidacy for later
	// roster entries. The default lets a record be the best match for any
	// number of roster entries.
	Exclusive  bool
	Scorer     Scorer
	Normalizer Normalizer
	Logger     *slog.Logger
}

// Matcher aligns roster entries with raw attendance records
type Matcher struct {
	threshold int
	exclusive bool
	scorer    Scorer
	normalize Normalizer
	logger    *slog.Logger
}

// NewMatcher creates a matcher, filling unset options with defaults
func NewMatcher(opts Options) *Matcher {
	m := &Matcher{
		threshold: opts.Threshold,
		exclusive: opts.Exclusive,
		scorer:    opts.Scorer,
		normalize: opts.Normalizer,
		logger:    opts.Logger,
	}
	if m.threshold <= 0 {
		m.threshold = DefaultThreshold
	}
	if m.scorer == nil {
		m.scorer = TokenSetRatio
	}
	if m.normalize == nil {
		m.normalize = Normalize
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.logger = m.logger.With("component", "matcher")
	return m
}

// Threshold returns the effective acceptance cutoff
func (m *Matcher) Threshold() int { return m.threshold }

// Match aligns every roster entry, in roster order, with its best scoring raw
// record. Ties keep the earliest raw record. Accepted entries copy the record's
// statuses; the rest get N/A for every session. Raw records that were never
// accepted are returned as Unmatched in raw order.
func (m *Matcher) Match(ctx context.Context, roster []domain.RosterEntry, raw *domain.RawTable) (*domain.Reconciliation, error) {
	if raw == nil {
		return nil, fmt.Errorf("raw table is nil")
	}
	if err := raw.Validate(); err != nil {
		return nil, fmt.Errorf("invalid raw table: %w", err)
	}

	keys := make([]string, len(raw.Records))
	for i, rec := range raw.Records {
		keys[i] = m.normalize(rec.DisplayName)
	}

	consumed := make(map[int]struct{})
	result := &domain.Reconciliation{
		Sessions: append([]string(nil), raw.Sessions...),
		Matched:  make([]domain.MatchResult, 0, len(roster)),
	}

	for _, entry := range roster {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		key := m.normalize(entry.DisplayName)
		bestIdx, bestScore := -1, 0
		for i, candidate := range keys {
			if m.exclusive {
				if _, taken := consumed[i]; taken {
					continue
				}
			}
			if score := m.scorer(key, candidate); score > bestScore {
				bestIdx, bestScore = i, score
			}
		}

		mr := domain.MatchResult{
			Entry:       entry,
			RecordIndex: bestIdx,
			Score:       bestScore,
		}
		if bestIdx >= 0 {
			mr.Record = &raw.Records[bestIdx]
		}

		if bestIdx >= 0 && bestScore >= m.threshold {
			mr.Accepted = true
			mr.Statuses = append([]string(nil), raw.Records[bestIdx].Statuses...)
			consumed[bestIdx] = struct{}{}
		} else {
			mr.Statuses = naStatuses(len(raw.Sessions))
		}

		m.logger.DebugContext(ctx, "Roster entry scored",
			slog.String("identifier", entry.Identifier),
			slog.Int("best_index", bestIdx),
			slog.Int("score", bestScore),
			slog.Bool("accepted", mr.Accepted))

		result.Matched = append(result.Matched, mr)
	}

	for i, rec := range raw.Records {
		if _, ok := consumed[i]; !ok {
			result.Unmatched = append(result.Unmatched, rec)
		}
	}

	result.Consumed = make([]int, 0, len(consumed))
	for i := range consumed {
		result.Consumed = append(result.Consumed, i)
	}
	sort.Ints(result.Consumed)

	return result, nil
}

func naStatuses(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = domain.StatusNA
	}
	return out
}

package predictor

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/fatafat-forecast/internal/analysis"
	"github.com/danielpatrickdp/fatafat-forecast/internal/history"
	"github.com/danielpatrickdp/fatafat-forecast/internal/logging"
	"github.com/danielpatrickdp/fatafat-forecast/internal/schedule"
	"github.com/danielpatrickdp/fatafat-forecast/internal/scoring"
	"github.com/danielpatrickdp/fatafat-forecast/internal/transition"
)

// #region predictor-struct

// Predictor is the context object handed to every transport. It owns the
// sequence, the analysis cache over it and the scoring engine, and keeps the
// cache coherent with every mutation it performs.
type Predictor struct {
	history *history.History
	cache   *analysis.Cache
	engine  *scoring.Engine
	clock   *schedule.Clock
	store   Store
	loc     *time.Location
	logger  *zap.Logger

	// mu serializes mutations so the store and the in-memory sequence
	// receive observations in the same order.
	mu sync.Mutex
}

// #endregion predictor-struct

// #region constructor

// New wires a predictor over h. store may be nil, in which case ingested
// observations live in memory only and predictions are not logged.
func New(h *history.History, store Store, config Config, logger *zap.Logger) (*Predictor, error) {
	if h == nil {
		return nil, fmt.Errorf("predictor: nil history")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	clock, err := schedule.NewClock(config.Schedule)
	if err != nil {
		return nil, err
	}
	loc := config.Location
	if loc == nil {
		loc = DefaultConfig().Location
	}
	return &Predictor{
		history: h,
		cache:   analysis.NewCache(h, config.Cache, logger.Named("analysis")),
		engine:  scoring.NewEngine(config.Scoring),
		clock:   clock,
		store:   store,
		loc:     loc,
		logger:  logger,
	}, nil
}

// #endregion constructor

// #region accessors

// History returns the underlying sequence store.
func (p *Predictor) History() *history.History { return p.history }

// Location returns the timezone predictions are computed in.
func (p *Predictor) Location() *time.Location { return p.loc }

// Snapshot returns the current pattern snapshot, building it if needed.
func (p *Predictor) Snapshot() *analysis.Snapshot { return p.cache.GetOrBuild() }

// CacheStats exposes the analysis cache counters.
func (p *Predictor) CacheStats() analysis.CacheStats { return p.cache.Stats() }

// Engine returns the scoring engine.
func (p *Predictor) Engine() *scoring.Engine { return p.engine }

// Round places now in the draw schedule.
func (p *Predictor) Round(now time.Time) schedule.RoundInfo {
	return p.clock.Round(now.In(p.loc))
}

// #endregion accessors

// #region number-wise

// NumberWise scores every digit for the hour of now in the predictor's
// timezone.
func (p *Predictor) NumberWise(now time.Time) NumberWise {
	snap := p.cache.GetOrBuild()
	return p.numberWise(snap, now.In(p.loc))
}

func (p *Predictor) numberWise(snap *analysis.Snapshot, local time.Time) NumberWise {
	return NumberWise{
		Distribution:     p.engine.Distribution(snap, local),
		SequenceAnalysis: Analyze(snap),
	}
}

// #endregion number-wise

// #region current

// Current forecasts the current or next round and records it in the
// prediction log when a store is configured. trigger names the caller.
func (p *Predictor) Current(now time.Time, trigger string) Prediction {
	local := now.In(p.loc)
	snap := p.cache.GetOrBuild()
	nw := p.numberWise(snap, local)
	round := p.clock.Round(local)

	pred := Prediction{
		PredictedNumber: nw.TopDigit,
		Confidence:      nw.TopScore,
		Method:          scoring.Explain(nw.Distribution, snap),
		Status:          round.Status(),
		TargetTime:      round.TargetTime(),
		DrawNumber:      round.DrawNumber,
		TimeToNext:      round.TimeToNext,
		RoundInfo:       round,
		NumberWise:      nw,
		RunID:           uuid.New().String(),
		SnapshotID:      snap.ID,
	}
	predictionsServed.WithLabelValues(trigger).Inc()
	p.record(pred, snap, local, trigger)
	return pred
}

// record writes pred to the prediction log. Failures are logged, not returned.
func (p *Predictor) record(pred Prediction, snap *analysis.Snapshot, local time.Time, trigger string) {
	if p.store == nil {
		return
	}
	ranked := make([]int, len(pred.NumberWise.Ranked))
	for i, r := range pred.NumberWise.Ranked {
		ranked[i] = r.Digit
	}
	rec := logging.PredictionRecord{
		Hour:     local.Hour(),
		Timezone: p.loc.String(),
		Scores:   pred.NumberWise.Scores,
		Ranked:   ranked,
		Hot:      snap.Frequency.Hot,
		Cold:     snap.Frequency.Cold,
		Recent:   snap.RecentTrend,
	}
	recJSON, err := json.Marshal(rec)
	if err != nil {
		p.logger.Warn("marshal prediction record", zap.Error(err))
		return
	}
	err = logging.LogPrediction(p.store.DB(), logging.PredictionEntry{
		RunID:       pred.RunID,
		SnapshotID:  snap.ID,
		SequenceLen: snap.SequenceLen,
		TopDigit:    pred.PredictedNumber,
		TopScore:    pred.Confidence,
		Method:      string(pred.Method),
		TriggerType: trigger,
		ScoresJSON:  string(recJSON),
	})
	if err != nil {
		p.logger.Warn("prediction log write failed", zap.String("run_id", pred.RunID), zap.Error(err))
	}
}

// #endregion current

// #region statistics

// Statistics summarizes the sequence behind the current snapshot.
func (p *Predictor) Statistics() Statistics {
	return Summarize(p.cache.GetOrBuild())
}

// Summarize derives Statistics from a snapshot. Most and least frequent
// default to 0 for an empty sequence.
func Summarize(snap *analysis.Snapshot) Statistics {
	st := Statistics{
		TotalDrawsAnalyzed:    snap.SequenceLen,
		RecentTrend:           snap.Recent(5),
		FrequencyDistribution: make(map[int]int),
		Hot:                   snap.Frequency.Hot,
		Cold:                  snap.Frequency.Cold,
	}
	if r := snap.Frequency.Ranking; len(r) > 0 {
		st.MostFrequentNumber = r[0]
		st.LeastFrequentNumber = r[len(r)-1]
	}
	for d, c := range snap.Frequency.Counts {
		if c > 0 {
			st.FrequencyDistribution[d] = c
		}
	}
	return st
}

// #endregion statistics

// #region sequence-analysis

// Analyze lists the current order-1/2/3 contexts and their top three
// followers. Orders longer than the recent trend are left empty.
func Analyze(snap *analysis.Snapshot) SequenceAnalysis {
	sa := SequenceAnalysis{
		SingleFollowers: []transition.FollowerCount{},
		PairFollowers:   []transition.FollowerCount{},
		TripleFollowers: []transition.FollowerCount{},
	}
	targets := [transition.MaxOrder]*[]transition.FollowerCount{
		&sa.SingleFollowers, &sa.PairFollowers, &sa.TripleFollowers,
	}
	for k := 1; k <= transition.MaxOrder; k++ {
		ctx, ok := snap.CurrentContext(k)
		if !ok {
			continue
		}
		switch k {
		case 1:
			last := ctx.Digits()[0]
			sa.LastNumber = &last
		case 2:
			sa.LastPair = ctx.Digits()
		case 3:
			sa.LastTriple = ctx.Digits()
		}
		if followers, ok := snap.Transitions.Lookup(ctx); ok {
			if top := followers.Top(3); top != nil {
				*targets[k-1] = top
			}
		}
	}
	return sa
}

// #endregion sequence-analysis

// #region mutations

// Ingest validates obs, persists them, appends them to the sequence and
// invalidates the analysis cache. Nothing is recorded when validation fails.
func (p *Predictor) Ingest(obs ...history.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := history.ValidateAll(obs); err != nil {
		return err
	}
	if p.store != nil {
		if err := p.store.Append(obs...); err != nil {
			return fmt.Errorf("persist observations: %w", err)
		}
	}
	if err := p.history.Append(obs...); err != nil {
		return err
	}
	p.cache.Invalidate()
	observationsIngested.Add(float64(len(obs)))
	p.logger.Info("observations ingested", zap.Int("count", len(obs)), zap.Int("sequence_len", p.history.Len()))
	return nil
}

// Replace swaps the whole sequence and invalidates the analysis cache.
func (p *Predictor) Replace(obs []history.Observation) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := history.ValidateAll(obs); err != nil {
		return err
	}
	if p.store != nil {
		if err := p.store.ReplaceAll(obs); err != nil {
			return fmt.Errorf("persist observations: %w", err)
		}
	}
	if err := p.history.Replace(obs); err != nil {
		return err
	}
	p.cache.Invalidate()
	p.logger.Info("history replaced", zap.Int("sequence_len", len(obs)))
	return nil
}

// Refresh drops the memoized analysis; the next request rebuilds it.
func (p *Predictor) Refresh() {
	p.cache.Invalidate()
	p.logger.Debug("analysis refreshed")
}

// #endregion mutations

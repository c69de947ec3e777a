package app

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/domain/core"
	"gonist/internal/cache"
	"gonist/ports"
)

// stubTest is a scriptable battery member for orchestration tests.
type stubTest struct {
	name      string
	paramsErr error
	outcome   battery.Outcome
	evalErr   error
	evals     int
}

func (s *stubTest) Name() string        { return s.name }
func (s *stubTest) Description() string { return "stub" }
func (s *stubTest) MinimumLength() int  { return 1 }

func (s *stubTest) Parameters(seq *bitstream.Sequence) (battery.Params, error) {
	if s.paramsErr != nil {
		return battery.Params{}, s.paramsErr
	}
	return battery.Params{}, nil
}

func (s *stubTest) Evaluate(ctx context.Context, seq *bitstream.Sequence, params battery.Params) (battery.Outcome, error) {
	s.evals++
	return s.outcome, s.evalErr
}

func testSequence(t *testing.T) *bitstream.Sequence {
	t.Helper()
	bits := make([]uint8, 200)
	for i := range bits {
		bits[i] = uint8(i % 2)
	}
	seq, err := bitstream.New(bits)
	if err != nil {
		t.Fatal(err)
	}
	return seq
}

func TestRunner_ReportsInDeclarationOrder(t *testing.T) {
	tests := []*stubTest{
		{name: "alpha", outcome: battery.Outcome{Scores: []float64{0.5}}},
		{name: "beta", paramsErr: core.NewMinLengthError("beta", 1000000, 200)},
		{name: "gamma", outcome: battery.Outcome{Scores: []float64{0.002}}},
	}
	runner := NewRunner(cache.New())
	report, err := runner.Run(context.Background(), testSequence(t), asPorts(tests), Options{})
	if err != nil {
		t.Fatal(err)
	}

	if len(report.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(report.Results))
	}
	for i, want := range []string{"alpha", "beta", "gamma"} {
		if report.Results[i].Name != want {
			t.Errorf("result[%d] = %s, want %s", i, report.Results[i].Name, want)
		}
	}

	if report.Results[0].Status != battery.StatusPassed {
		t.Errorf("alpha status = %s, want passed", report.Results[0].Status)
	}
	if report.Results[1].Status != battery.StatusIneligible {
		t.Errorf("beta status = %s, want ineligible", report.Results[1].Status)
	}
	if report.Results[1].Reason == "" {
		t.Error("ineligible result must carry a reason")
	}
	if report.Results[2].Status != battery.StatusFailed {
		t.Errorf("gamma status = %s, want failed", report.Results[2].Status)
	}
}

func TestRunner_SummaryExcludesIneligible(t *testing.T) {
	tests := []*stubTest{
		{name: "alpha", outcome: battery.Outcome{Scores: []float64{0.4}}},
		{name: "beta", paramsErr: core.NewMinLengthError("beta", 1000000, 200)},
		{name: "gamma", outcome: battery.Outcome{Scores: []float64{0.2}}},
	}
	runner := NewRunner(cache.New())
	report, err := runner.Run(context.Background(), testSequence(t), asPorts(tests), Options{})
	if err != nil {
		t.Fatal(err)
	}

	s := report.Summary
	if s.Eligible != 2 || s.Passed != 2 || s.Failed != 0 || s.Ineligible != 1 {
		t.Errorf("summary = %+v, want 2 eligible, 2 passed, 1 ineligible", s)
	}
	if s.PassRate != 1.0 {
		t.Errorf("pass rate = %g, want 1", s.PassRate)
	}
	if math.Abs(s.MeanScore-0.3) > 1e-12 {
		t.Errorf("mean score = %g, want 0.3", s.MeanScore)
	}
	if s.MinScore != 0.2 {
		t.Errorf("min score = %g, want 0.2", s.MinScore)
	}
}

func TestRunner_CachesWholeResults(t *testing.T) {
	stub := &stubTest{name: "alpha", outcome: battery.Outcome{Scores: []float64{0.5}}}
	runner := NewRunner(cache.New())
	seq := testSequence(t)

	first, err := runner.Run(context.Background(), seq, asPorts([]*stubTest{stub}), Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := runner.Run(context.Background(), seq, asPorts([]*stubTest{stub}), Options{})
	if err != nil {
		t.Fatal(err)
	}

	if stub.evals != 1 {
		t.Errorf("test evaluated %d times, want 1", stub.evals)
	}
	if first.Results[0].CacheHit {
		t.Error("first run must not be a cache hit")
	}
	if !second.Results[0].CacheHit {
		t.Error("second run must be a cache hit")
	}
	if second.Results[0].Score() != first.Results[0].Score() {
		t.Error("cached score differs from computed score")
	}

	// Distinct run ids even for identical inputs.
	if first.RunID == second.RunID {
		t.Error("run ids must be unique per run")
	}
}

func TestRunner_SkipCacheForcesReevaluation(t *testing.T) {
	stub := &stubTest{name: "alpha", outcome: battery.Outcome{Scores: []float64{0.5}}}
	runner := NewRunner(cache.New())
	seq := testSequence(t)

	opts := Options{SkipCache: true}
	for i := 0; i < 2; i++ {
		if _, err := runner.Run(context.Background(), seq, asPorts([]*stubTest{stub}), opts); err != nil {
			t.Fatal(err)
		}
	}
	if stub.evals != 2 {
		t.Errorf("test evaluated %d times with cache skipped, want 2", stub.evals)
	}
}

func TestRunner_StopOnFailure(t *testing.T) {
	tests := []*stubTest{
		{name: "alpha", outcome: battery.Outcome{Scores: []float64{0.5}}},
		{name: "beta", paramsErr: core.NewMinLengthError("beta", 1000000, 200)},
		{name: "gamma", outcome: battery.Outcome{Scores: []float64{0.001}}},
		{name: "delta", outcome: battery.Outcome{Scores: []float64{0.5}}},
	}
	runner := NewRunner(cache.New())
	report, err := runner.Run(context.Background(), testSequence(t), asPorts(tests), Options{StopOnFailure: true})
	if err != nil {
		t.Fatal(err)
	}

	// The run includes the failing test and nothing after it; ineligible
	// tests do not stop it.
	if len(report.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(report.Results))
	}
	if report.Results[2].Name != "gamma" || report.Results[2].Status != battery.StatusFailed {
		t.Errorf("last result = %s (%s), want gamma failed", report.Results[2].Name, report.Results[2].Status)
	}
	if tests[3].evals != 0 {
		t.Errorf("delta evaluated %d times after the failure, want 0", tests[3].evals)
	}
	if report.Summary.Failed != 1 || report.Summary.Eligible != 2 {
		t.Errorf("summary = %+v, want 1 failed of 2 eligible", report.Summary)
	}
}

func TestRunner_EvaluationErrorAborts(t *testing.T) {
	wantErr := errors.New("numerical blowup")
	tests := []*stubTest{
		{name: "alpha", outcome: battery.Outcome{Scores: []float64{0.5}}},
		{name: "beta", evalErr: wantErr},
	}
	runner := NewRunner(cache.New())
	_, err := runner.Run(context.Background(), testSequence(t), asPorts(tests), Options{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected evaluation error, got %v", err)
	}
}

func TestRunner_RejectsEmptySequence(t *testing.T) {
	runner := NewRunner(cache.New())
	if _, err := runner.Run(context.Background(), nil, nil, Options{}); !errors.Is(err, core.ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence, got %v", err)
	}
}

func TestRunner_SignificanceOverride(t *testing.T) {
	stub := &stubTest{name: "alpha", outcome: battery.Outcome{Scores: []float64{0.02}}}
	runner := NewRunner(cache.New())
	seq := testSequence(t)

	report, err := runner.Run(context.Background(), seq, asPorts([]*stubTest{stub}), Options{Significance: 0.05})
	if err != nil {
		t.Fatal(err)
	}
	if report.Results[0].Status != battery.StatusFailed {
		t.Errorf("status at significance 0.05 = %s, want failed", report.Results[0].Status)
	}
	if report.Significance != 0.05 {
		t.Errorf("report significance = %g, want 0.05", report.Significance)
	}
}

func asPorts(stubs []*stubTest) []ports.StatisticalTest {
	out := make([]ports.StatisticalTest, len(stubs))
	for i, s := range stubs {
		out[i] = s
	}
	return out
}

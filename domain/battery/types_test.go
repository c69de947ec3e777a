package battery

import "testing"

func TestVerdict_AllScoresMustClear(t *testing.T) {
	cases := []struct {
		name   string
		scores []float64
		want   Status
	}{
		{"all above", []float64{0.5, 0.2, 0.011}, StatusPassed},
		{"one below", []float64{0.5, 0.009, 0.8}, StatusFailed},
		{"exactly at threshold", []float64{0.01}, StatusPassed},
		{"just under", []float64{0.0099}, StatusFailed},
		{"no scores", nil, StatusPassed},
	}
	for _, tc := range cases {
		if got := Verdict(tc.scores, DefaultSignificance); got != tc.want {
			t.Errorf("%s: Verdict = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestResult_Score(t *testing.T) {
	r := Result{Scores: []float64{0.2, 0.4}}
	if got := r.Score(); got != 0.3 {
		t.Errorf("Score = %g, want 0.3", got)
	}
	empty := Result{}
	if got := empty.Score(); got != 0 {
		t.Errorf("Score of empty result = %g, want 0", got)
	}
}

func TestParams_FingerprintCoversFields(t *testing.T) {
	a := Params{BlockSize: 20, BlockCount: 10}
	b := Params{BlockSize: 20, BlockCount: 10}
	c := Params{BlockSize: 21, BlockCount: 10}
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("equal params must share a fingerprint")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("differing params must not share a fingerprint")
	}
}

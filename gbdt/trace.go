package gbdt

// Trace accumulates counts of the two internal recovery events of §7 that
// never surface as errors: a node whose Gram solve degraded to "not ok"
// (NumericalDegeneracy) and a node whose best candidate split had gain ≤ 0
// or no valid candidate at all (NoViableSplit). Tracing is optional and
// off by default — pass a *Trace via WithTrace to have Train populate it —
// mirroring 115100-reason/classifiers/hoeffding's EnableTracing-gated
// *Trace value rather than an always-on logging stream (§3's "Logging"
// ambient-stack note).
type Trace struct {
	NumericalDegeneracy int
	NoViableSplit       int
}

func (t *Trace) bumpDegeneracy() {
	if t != nil {
		t.NumericalDegeneracy++
	}
}

func (t *Trace) bumpNoViableSplit() {
	if t != nil {
		t.NoViableSplit++
	}
}

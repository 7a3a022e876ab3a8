package rmnk

import "testing"

func TestSigmaPacking(t *testing.T) {
	inst := &Instance{
		m: 1, n: 3, k: 1,
		links: [][][]int{{{2, 0}, {1, 2}, {0, 1}}},
		tables: [][][]float64{{
			make([]float64, 4), make([]float64, 4), make([]float64, 4),
		}},
	}

	tests := []struct {
		bits []bool
		i    int
		want int
	}{
		// Contribution 0 reads bit 2 into the low position and bit 0 into
		// the high position.
		{[]bool{true, false, false}, 0, 2},
		{[]bool{false, false, true}, 0, 1},
		{[]bool{true, false, true}, 0, 3},
		{[]bool{false, true, false}, 1, 1},
		{[]bool{false, false, true}, 1, 2},
		{[]bool{true, true, true}, 2, 3},
	}
	for _, tt := range tests {
		if got := inst.sigma(0, tt.bits, tt.i); got != tt.want {
			t.Errorf("sigma(0, %v, %d) = %d, want %d", tt.bits, tt.i, got, tt.want)
		}
	}
}

func TestEvaluateSeparable(t *testing.T) {
	// K = 0 landscapes are additive: every bit contributes on its own.
	inst := &Instance{
		m: 1, n: 4, k: 0,
		links: [][][]int{{{0}, {1}, {2}, {3}}},
		tables: [][][]float64{{
			{0, 0.25}, {0, 0.5}, {0, 0.75}, {0, 1},
		}},
	}

	tests := []struct {
		bits []bool
		want float64
	}{
		{[]bool{false, false, false, false}, 0},
		{[]bool{true, false, false, false}, 0.25 / 4},
		{[]bool{true, true, true, true}, 2.5 / 4},
		{[]bool{false, true, false, true}, 1.5 / 4},
	}
	for _, tt := range tests {
		got := inst.Evaluate(tt.bits)
		if len(got) != 1 {
			t.Fatalf("Evaluate returned %d objectives, want 1", len(got))
		}
		if got[0] != tt.want {
			t.Errorf("Evaluate(%v) = %v, want %v", tt.bits, got[0], tt.want)
		}
	}

	// Flipping one bit moves the objective by exactly its table delta over N.
	base := inst.Evaluate([]bool{false, true, false, false})
	flipped := inst.Evaluate([]bool{true, true, false, false})
	if diff := flipped[0] - base[0]; diff != 0.25/4 {
		t.Errorf("flip of bit 0 changed objective by %v, want %v", diff, 0.25/4)
	}
}

func TestNewValidation(t *testing.T) {
	links := func() [][][]int {
		return [][][]int{{{0, 1}, {1, 0}}}
	}
	tables := func() [][][]float64 {
		return [][][]float64{{
			{0.1, 0.2, 0.3, 0.4}, {0.5, 0.6, 0.7, 0.8},
		}}
	}

	if _, err := New(0, links(), tables()); err != nil {
		t.Fatalf("valid instance rejected: %v", err)
	}

	if _, err := New(0, nil, nil); err == nil {
		t.Error("empty instance accepted")
	}

	bad := links()
	bad[0][1] = []int{1, 0, 0} // one contribution claims three links
	if _, err := New(0, bad, tables()); err == nil {
		t.Error("ragged links accepted")
	}

	bad = links()
	bad[0][1] = []int{1, 5} // link outside the bit string
	if _, err := New(0, bad, tables()); err == nil {
		t.Error("out of range link accepted")
	}

	badTables := tables()
	badTables[0][0] = []float64{0.1, 0.2} // wrong width for K = 1
	if _, err := New(0, links(), badTables); err == nil {
		t.Error("short contribution table accepted")
	}

	// K+1 exceeding N.
	wide := [][][]int{{{0, 0}}}
	wideTables := [][][]float64{{{0, 0, 0, 0}}}
	if _, err := New(0, wide, wideTables); err == nil {
		t.Error("K+1 > N accepted")
	}
}

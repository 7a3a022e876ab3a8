package rmnk

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const literalInstance = `c generated for the reader tests
c rho=0 M=2 N=2 K=0
p rMNK 0.0 2 2 0
p links
0 0
1 1
p tables
0 0.5
0.25 0.625
0.125 0.75
0.375 0.875
`

func TestReadLiteral(t *testing.T) {
	inst, err := Read(strings.NewReader(literalInstance))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if inst.M() != 2 || inst.N() != 2 || inst.K() != 0 {
		t.Fatalf("dimensions M=%d N=%d K=%d, want 2 2 0", inst.M(), inst.N(), inst.K())
	}
	if inst.Rho() != 0 {
		t.Errorf("rho = %v, want 0", inst.Rho())
	}

	tests := []struct {
		bits []bool
		want []float64
	}{
		{[]bool{false, false}, []float64{0.0625, 0.625}},
		{[]bool{true, false}, []float64{0.1875, 0.6875}},
		{[]bool{true, true}, []float64{0.3125, 0.75}},
	}
	for _, tt := range tests {
		got := inst.Evaluate(tt.bits)
		for obj := range tt.want {
			if got[obj] != tt.want[obj] {
				t.Errorf("Evaluate(%v)[%d] = %v, want %v", tt.bits, obj, got[obj], tt.want[obj])
			}
		}
	}
}

func TestReadTokensAcrossLines(t *testing.T) {
	// The format is a token stream, so line breaks are free.
	mangled := "p rMNK\n0.0 2\n2 0\np\nlinks\n0\n0 1 1\np tables\n" +
		"0 0.5 0.25 0.625 0.125 0.75 0.375 0.875"
	inst, err := Read(strings.NewReader(mangled))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if inst.M() != 2 || inst.N() != 2 {
		t.Errorf("dimensions M=%d N=%d, want 2 2", inst.M(), inst.N())
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"comments only", "c nothing else\n"},
		{"missing p marker", "rMNK 0.0 2 2 0\n"},
		{"wrong type", "p MNK 0.0 2 2 0\n"},
		{"non numeric rho", "p rMNK abc 2 2 0\n"},
		{"negative N", "p rMNK 0.0 2 -2 0\n"},
		{"zero objectives", "p rMNK 0.0 0 2 0\np links\np tables\n"},
		{"K too large", "p rMNK 0.0 1 2 2\np links\np tables\n"},
		{"missing links marker", "p rMNK 0.0 1 1 0\n0\np tables\n0 1\n"},
		{"truncated links", "p rMNK 0.0 2 2 0\np links\n0 0\n"},
		{"link out of range", "p rMNK 0.0 1 2 0\np links\n0\n3\np tables\n0 1 0 1\n"},
		{"missing tables marker", "p rMNK 0.0 1 1 0\np links\n0\n0 1\n"},
		{"truncated tables", "p rMNK 0.0 1 2 0\np links\n0\n1\np tables\n0.5\n"},
		{"non numeric table", "p rMNK 0.0 1 1 0\np links\n0\np tables\n0.5 x\n"},
	}

	for _, tt := range tests {
		_, err := Read(strings.NewReader(tt.input))
		if err == nil {
			t.Errorf("%s: Read accepted malformed input", tt.name)
			continue
		}
		if !errors.Is(err, ErrParse) {
			t.Errorf("%s: error %v does not wrap ErrParse", tt.name, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.rmnk")
	if err == nil {
		t.Fatal("Load of missing file succeeded")
	}
	if errors.Is(err, ErrParse) {
		t.Errorf("I/O failure reported as parse error: %v", err)
	}
}

func TestWriteToRoundTrip(t *testing.T) {
	inst, err := Generate(GeneratorConfig{Rho: 0.4, M: 3, N: 6, K: 2, Seed: 11})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var buf bytes.Buffer
	n, err := inst.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo reported %d bytes, buffer holds %d", n, buf.Len())
	}

	back, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read of written instance failed: %v", err)
	}
	if diff := cmp.Diff(inst, back, cmp.AllowUnexported(Instance{})); diff != "" {
		t.Errorf("round-trip changed the instance (-want +got):\n%s", diff)
	}
}

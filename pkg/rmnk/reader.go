package rmnk

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrParse reports a malformed instance file. Every format violation wraps
// it, so callers can distinguish bad input from I/O failures.
var ErrParse = errors.New("malformed rMNK instance")

// Load reads an instance from the file at path.
func Load(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open instance: %w", err)
	}
	defer f.Close()

	inst, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

// Read parses an instance from r. The format is a whitespace separated token
// stream: comment lines starting with c, a "p rMNK rho M N K" header, a
// "p links" section holding N*(K+1)*M bit indices and a "p tables" section
// holding N*2^(K+1)*M contribution values. Both sections are laid out with
// the contribution index outermost and the objective index innermost.
func Read(r io.Reader) (*Instance, error) {
	sc := newTokenScanner(r)

	tok, err := sc.next()
	if err != nil {
		return nil, fmt.Errorf("%w: empty input", ErrParse)
	}
	for strings.HasPrefix(tok, "c") {
		if err := sc.skipLine(); err != nil {
			return nil, fmt.Errorf("%w: unterminated comment", ErrParse)
		}
		if tok, err = sc.next(); err != nil {
			return nil, fmt.Errorf("%w: missing header", ErrParse)
		}
	}

	if tok != "p" {
		return nil, fmt.Errorf("%w: expected \"p\" marker, got %q", ErrParse, tok)
	}
	if tok, err = sc.next(); err != nil || tok != "rMNK" {
		return nil, fmt.Errorf("%w: expected \"rMNK\" header", ErrParse)
	}

	rho, err := sc.float()
	if err != nil {
		return nil, fmt.Errorf("%w: reading rho: %v", ErrParse, err)
	}

	var dims [3]int
	for idx, name := range []string{"M", "N", "K"} {
		v, err := sc.int()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrParse, name, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("%w: %s must not be negative, got %d", ErrParse, name, v)
		}
		dims[idx] = v
	}
	m, n, k := dims[0], dims[1], dims[2]

	if m == 0 {
		return nil, fmt.Errorf("%w: M must be positive", ErrParse)
	}
	if k+1 > n {
		return nil, fmt.Errorf("%w: K+1 = %d exceeds N = %d", ErrParse, k+1, n)
	}

	width := 1 << uint(k+1)
	links := make([][][]int, m)
	tables := make([][][]float64, m)
	for obj := range links {
		links[obj] = make([][]int, n)
		tables[obj] = make([][]float64, n)
		for i := 0; i < n; i++ {
			links[obj][i] = make([]int, k+1)
			tables[obj][i] = make([]float64, width)
		}
	}

	if err := sc.expectSection("links"); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= k; j++ {
			for obj := 0; obj < m; obj++ {
				v, err := sc.int()
				if err != nil {
					return nil, fmt.Errorf("%w: links section: %v", ErrParse, err)
				}
				if v < 0 || v >= n {
					return nil, fmt.Errorf("%w: link index %d outside [0, %d)", ErrParse, v, n)
				}
				links[obj][i][j] = v
			}
		}
	}

	if err := sc.expectSection("tables"); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := 0; j < width; j++ {
			for obj := 0; obj < m; obj++ {
				v, err := sc.float()
				if err != nil {
					return nil, fmt.Errorf("%w: tables section: %v", ErrParse, err)
				}
				tables[obj][i][j] = v
			}
		}
	}

	return &Instance{rho: rho, m: m, n: n, k: k, links: links, tables: tables}, nil
}

type tokenScanner struct {
	r *bufio.Reader
}

func newTokenScanner(r io.Reader) *tokenScanner {
	return &tokenScanner{r: bufio.NewReaderSize(r, 1<<16)}
}

// next returns the next whitespace delimited token.
func (sc *tokenScanner) next() (string, error) {
	var sb strings.Builder
	for {
		c, err := sc.r.ReadByte()
		if err != nil {
			if sb.Len() > 0 && err == io.EOF {
				return sb.String(), nil
			}
			return "", err
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			if sb.Len() > 0 {
				return sb.String(), nil
			}
		default:
			sb.WriteByte(c)
		}
	}
}

// skipLine consumes input through the end of the current line.
func (sc *tokenScanner) skipLine() error {
	if _, err := sc.r.ReadString('\n'); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (sc *tokenScanner) int() (int, error) {
	tok, err := sc.next()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(tok)
}

func (sc *tokenScanner) float() (float64, error) {
	tok, err := sc.next()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(tok, 64)
}

func (sc *tokenScanner) expectSection(name string) error {
	tok, err := sc.next()
	if err != nil || tok != "p" {
		return fmt.Errorf("%w: expected \"p %s\" section", ErrParse, name)
	}
	if tok, err = sc.next(); err != nil || tok != name {
		return fmt.Errorf("%w: expected \"p %s\" section", ErrParse, name)
	}
	return nil
}

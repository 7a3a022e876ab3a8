package rmnk

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteTo writes the instance in the textual format understood by Read.
// Values are printed with enough digits to round-trip exactly.
func (inst *Instance) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	fmt.Fprintf(bw, "c rMNK-landscape rho=%s M=%d N=%d K=%d\n",
		formatFloat(inst.rho), inst.m, inst.n, inst.k)
	fmt.Fprintf(bw, "p rMNK %s %d %d %d\n", formatFloat(inst.rho), inst.m, inst.n, inst.k)

	fmt.Fprintln(bw, "p links")
	for i := 0; i < inst.n; i++ {
		for j := 0; j <= inst.k; j++ {
			for obj := 0; obj < inst.m; obj++ {
				if obj > 0 {
					bw.WriteByte(' ')
				}
				bw.WriteString(strconv.Itoa(inst.links[obj][i][j]))
			}
			bw.WriteByte('\n')
		}
	}

	fmt.Fprintln(bw, "p tables")
	width := 1 << uint(inst.k+1)
	for i := 0; i < inst.n; i++ {
		for j := 0; j < width; j++ {
			for obj := 0; obj < inst.m; obj++ {
				if obj > 0 {
					bw.WriteByte(' ')
				}
				bw.WriteString(formatFloat(inst.tables[obj][i][j]))
			}
			bw.WriteByte('\n')
		}
	}

	err := bw.Flush()
	return cw.n, err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

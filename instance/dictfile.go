package instance

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"q.log/pivot/dictionary"
)

// ReadDictionary parses a dictionary in the text format
//
//	m n
//	B1 .. Bm          basic indices
//	N1 .. Nn          non-basic indices
//	b1 .. bm          right-hand sides
//	a11 .. a1n        m rows of A
//	...
//	z0 c1 .. cn       objective
//
// Tokens are whitespace separated; line breaks carry no meaning.
func ReadDictionary(r io.Reader) (*dictionary.Dictionary, error) {
	t := &tokens{sc: bufio.NewScanner(r)}
	t.sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	t.sc.Split(bufio.ScanWords)

	m, err := t.nextInt("m")
	if err != nil {
		return nil, err
	}
	n, err := t.nextInt("n")
	if err != nil {
		return nil, err
	}
	if m < 1 || n < 1 {
		return nil, errors.Wrapf(ErrFormat, "bad size m=%d n=%d", m, n)
	}

	basic, err := t.nextInts("basic index", m)
	if err != nil {
		return nil, err
	}
	nonBasic, err := t.nextInts("non-basic index", n)
	if err != nil {
		return nil, err
	}
	b, err := t.nextFloats("right-hand side", m)
	if err != nil {
		return nil, err
	}
	a, err := t.nextFloats("coefficient", m*n)
	if err != nil {
		return nil, err
	}
	z, err := t.nextFloats("objective", n+1)
	if err != nil {
		return nil, err
	}
	if err := t.sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read dictionary")
	}

	d, err := dictionary.New(m, n, basic, nonBasic, b, a, z)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return d, nil
}

// WriteDictionary writes d in the format read by ReadDictionary. Floats are
// written with full precision.
func WriteDictionary(w io.Writer, d *dictionary.Dictionary) error {
	m, n := d.Dims()
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%d %d\n", m, n)
	writeInts(bw, d.BasicIndices())
	writeInts(bw, d.NonBasicIndices())

	b := make([]float64, m)
	for i := range m {
		b[i] = d.RHS(i)
	}
	writeFloats(bw, b)

	row := make([]float64, n)
	for i := range m {
		for j := range n {
			row[j] = d.At(i, j)
		}
		writeFloats(bw, row)
	}
	writeFloats(bw, d.ObjectiveRow())

	return errors.Wrap(bw.Flush(), "write dictionary")
}

func writeInts(w *bufio.Writer, v []int) {
	s := make([]string, len(v))
	for i, x := range v {
		s[i] = strconv.Itoa(x)
	}
	w.WriteString(strings.Join(s, " "))
	w.WriteByte('\n')
}

func writeFloats(w *bufio.Writer, v []float64) {
	s := make([]string, len(v))
	for i, x := range v {
		s[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	w.WriteString(strings.Join(s, " "))
	w.WriteByte('\n')
}

type tokens struct {
	sc    *bufio.Scanner
	count int
}

func (t *tokens) next(what string) (string, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return "", errors.Wrapf(err, "reading %s", what)
		}
		return "", errors.Wrapf(ErrFormat, "unexpected end of input, want %s (token %d)", what, t.count+1)
	}
	t.count++
	return t.sc.Text(), nil
}

func (t *tokens) nextInt(what string) (int, error) {
	s, err := t.next(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(ErrFormat, "token %d: bad %s %q", t.count, what, s)
	}
	return v, nil
}

func (t *tokens) nextInts(what string, k int) ([]int, error) {
	v := make([]int, k)
	for i := range k {
		x, err := t.nextInt(what)
		if err != nil {
			return nil, err
		}
		v[i] = x
	}
	return v, nil
}

func (t *tokens) nextFloats(what string, k int) ([]float64, error) {
	v := make([]float64, k)
	for i := range k {
		s, err := t.next(what)
		if err != nil {
			return nil, err
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrFormat, "token %d: bad %s %q", t.count, what, s)
		}
		v[i] = x
	}
	return v, nil
}

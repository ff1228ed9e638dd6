package learning

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ErrShapeMismatch is returned when a stored table does not fit the
// expected state and action counts.
var ErrShapeMismatch = errors.New("q-table shape mismatch")

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Save writes the table as whitespace-separated text: a header of
// states, actions, updates, alpha, gamma, initialQ, updates, visited,
// then Q N P for every state-action pair in state-major order.
func (ql *QLearning) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d %s %s %s %d %d \n",
		ql.numStates, ql.numActions, ql.updates,
		formatFloat(ql.alpha), formatFloat(ql.gamma), formatFloat(ql.initialQ),
		ql.updates, ql.visited)
	for s := 0; s < ql.numStates; s++ {
		for a := 0; a < ql.numActions; a++ {
			fmt.Fprintf(bw, "%s %d %s ", formatFloat(ql.Q(s, a)), ql.N(s, a), formatFloat(ql.P(s, a)))
		}
	}
	return bw.Flush()
}

// SaveFile writes the table to path.
func (ql *QLearning) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating q-table file: %w", err)
	}
	if err := ql.Save(f); err != nil {
		f.Close()
		return fmt.Errorf("writing q-table: %w", err)
	}
	return f.Close()
}

// tokenReader pulls whitespace-separated numbers from a stream.
type tokenReader struct {
	sc  *bufio.Scanner
	err error
}

func newTokenReader(r io.Reader) *tokenReader {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &tokenReader{sc: sc}
}

func (t *tokenReader) next() string {
	if t.err != nil {
		return ""
	}
	if !t.sc.Scan() {
		t.err = t.sc.Err()
		if t.err == nil {
			t.err = io.ErrUnexpectedEOF
		}
		return ""
	}
	return t.sc.Text()
}

func (t *tokenReader) readFloat() float64 {
	tok := t.next()
	if t.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		t.err = err
	}
	return v
}

func (t *tokenReader) readUint() uint64 {
	tok := t.next()
	if t.err != nil {
		return 0
	}
	v, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		t.err = err
	}
	return v
}

// Load reads a table written by Save. The header must describe a
// numStates x numActions table; a mismatch fails before any allocation.
func Load(r io.Reader, numStates, numActions int) (*QLearning, error) {
	tr := newTokenReader(r)
	fileStates := tr.readUint()
	fileActions := tr.readUint()
	tr.readUint() // first copy of the update count
	alpha, gamma, initialQ := tr.readFloat(), tr.readFloat(), tr.readFloat()
	updates := int(tr.readUint())
	visited := int(tr.readUint())
	if tr.err != nil {
		return nil, fmt.Errorf("reading q-table header: %w", tr.err)
	}
	if fileStates != uint64(numStates) || fileActions != uint64(numActions) {
		return nil, fmt.Errorf("%w: file has %dx%d, want %dx%d",
			ErrShapeMismatch, fileStates, fileActions, numStates, numActions)
	}

	ql := New(numStates, numActions, alpha, gamma, initialQ)
	ql.updates, ql.visited = updates, visited
	for s := 0; s < numStates; s++ {
		for a := 0; a < numActions; a++ {
			ql.q.Set(s, a, tr.readFloat())
			ql.n[s*numActions+a] = tr.readUint()
			ql.p.Set(s, a, tr.readFloat())
		}
	}
	if tr.err != nil {
		return nil, fmt.Errorf("reading q-table body: %w", tr.err)
	}
	return ql, nil
}

// LoadFile reads a numStates x numActions table from path.
func LoadFile(path string, numStates, numActions int) (*QLearning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening q-table file: %w", err)
	}
	defer f.Close()

	return Load(f, numStates, numActions)
}

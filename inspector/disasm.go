// Package inspector extracts structure from genome programs by executing them
// against sinks that record instead of building a network.
package inspector

import (
	"fmt"
	"io"
	"strings"

	"github.com/pthm-cable/genogrid/genome"
)

// Disassembler writes one annotated line per instruction. Index operands are
// shown both as written and as the neuron they resolve to at that point.
type Disassembler struct {
	cur  genome.Cursor
	w    io.Writer
	line int
	err  error
}

// NewDisassembler returns a disassembler writing to w.
func NewDisassembler(w io.Writer) *Disassembler {
	return &Disassembler{cur: genome.NewCursor(), w: w}
}

// Disassemble renders p as text.
func Disassemble(p genome.Program) string {
	var sb strings.Builder
	p.Execute(NewDisassembler(&sb))
	return sb.String()
}

// Err returns the first write error, if any.
func (d *Disassembler) Err() error { return d.err }

func (d *Disassembler) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	prefix := fmt.Sprintf("%04d  ", d.line)
	d.line++
	_, d.err = fmt.Fprintf(d.w, prefix+format+"\n", args...)
}

func (d *Disassembler) created(op string) {
	n := d.cur.Append()
	d.printf("%-18s ; n%d", op, n)
}

func (d *Disassembler) CreateFixed(v float64)       { d.created(fmt.Sprintf("fixed %g", v)) }
func (d *Disassembler) CreateRandom()               { d.created("random") }
func (d *Disassembler) CreateSum()                  { d.created("sum") }
func (d *Disassembler) CreateWeightedSum(w float64) { d.created(fmt.Sprintf("wsum %g", w)) }
func (d *Disassembler) CreateMin()                  { d.created("min") }
func (d *Disassembler) CreateMax()                  { d.created("max") }

func (d *Disassembler) MoveTo(index int) {
	n := d.cur.MoveTo(index)
	d.printf("%-18s ; cursor n%d", fmt.Sprintf("move %d", index), n)
}

func (d *Disassembler) ReadFrom(index int) {
	d.printf("%-18s ; n%d <- n%d", fmt.Sprintf("read %d", index), d.cur.Current(), d.cur.At(index))
}

func (d *Disassembler) SetOutputDX(index int) {
	d.printf("%-18s ; dX = n%d", fmt.Sprintf("out.dx %d", index), d.cur.At(index))
}

func (d *Disassembler) SetOutputDY(index int) {
	d.printf("%-18s ; dY = n%d", fmt.Sprintf("out.dy %d", index), d.cur.At(index))
}

var _ genome.Sink = (*Disassembler)(nil)

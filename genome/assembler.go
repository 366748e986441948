package genome

// Assembler records instructions while tracking the cursor and neuron count
// the compiler would see, so hand-authored programs can use the same
// resolvers (Current, Last, Previous, ...) when choosing operands.
//
// Indices passed to the Sink methods are recorded as given; the Assembler
// only wraps them to keep its own cursor in step.
type Assembler struct {
	cur  Cursor
	prog Program
}

// NewAssembler returns an assembler positioned over the two input neurons.
func NewAssembler() *Assembler {
	return &Assembler{cur: NewCursor()}
}

func (a *Assembler) emit(in Instruction) {
	a.prog = append(a.prog, in)
}

func (a *Assembler) create(in Instruction) {
	a.emit(in)
	a.cur.Append()
}

func (a *Assembler) CreateFixed(v float64)       { a.create(Fixed(v)) }
func (a *Assembler) CreateRandom()               { a.create(Random()) }
func (a *Assembler) CreateSum()                  { a.create(Sum()) }
func (a *Assembler) CreateWeightedSum(w float64) { a.create(WeightedSum(w)) }
func (a *Assembler) CreateMin()                  { a.create(Min()) }
func (a *Assembler) CreateMax()                  { a.create(Max()) }

func (a *Assembler) MoveTo(index int) {
	a.emit(MoveTo(index))
	a.cur.MoveTo(index)
}

func (a *Assembler) ReadFrom(index int)    { a.emit(ReadFrom(index)) }
func (a *Assembler) SetOutputDX(index int) { a.emit(SetOutputDX(index)) }
func (a *Assembler) SetOutputDY(index int) { a.emit(SetOutputDY(index)) }

// Resolvers over the neurons the recorded program has created so far.
func (a *Assembler) Len() int         { return a.cur.Len() }
func (a *Assembler) Current() int     { return a.cur.Current() }
func (a *Assembler) First() int       { return a.cur.First() }
func (a *Assembler) Previous() int    { return a.cur.Previous() }
func (a *Assembler) Next() int        { return a.cur.Next() }
func (a *Assembler) Last() int        { return a.cur.Last() }
func (a *Assembler) At(index int) int { return a.cur.At(index) }
func (a *Assembler) XNeuron() int     { return a.cur.XNeuron() }
func (a *Assembler) YNeuron() int     { return a.cur.YNeuron() }

// Program returns a copy of the recorded instructions.
func (a *Assembler) Program() Program {
	return append(Program(nil), a.prog...)
}

// Chromosome serializes the recorded instructions.
func (a *Assembler) Chromosome() Chromosome {
	return FromProgram(a.prog)
}

var _ Sink = (*Assembler)(nil)

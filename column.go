package datatable

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/go-kit/log/level"
	"go.uber.org/atomic"
)

// ColumnImpl is the interface implemented by the representations of column
// data. Besides the methods of this interface, representations implement the
// getter interfaces matching their storage type (for example Int32Getter
// for Int32 columns), and may implement the optional capability interfaces
// (Materializer, Repeater, ...) to override the generic behavior of Column
// methods.
//
// Implementations embed ColumnBase, which carries the reference count and
// cached statistics shared by all representations.
type ColumnImpl interface {
	// Clone returns a new representation of the same values. Buffers are
	// shared with the receiver, the returned value is not referenced yet.
	Clone() ColumnImpl

	Type() SType
	NRows() int

	// IsVirtual reports whether values are computed on demand rather than
	// read from buffers.
	IsVirtual() bool
	NAStorage() NAStorage

	NumChildren() int
	Child(i int) Column

	NumDataBuffers() int
	DataSize(k int) int
	DataReadonly(k int) []byte
	IsDataEditable(k int) bool
	DataEditable(k int) []byte

	// MemoryFootprint returns an estimate of the memory held by the
	// representation, including its buffers and children.
	MemoryFootprint() int

	columnBase() *ColumnBase
}

// Element getters. Each returns the value at row i and false if the value is
// missing, in which case the returned value is undefined.
type (
	// Int8Getter is implemented by Bool and Int8 columns. Boolean values are
	// 0 or 1.
	Int8Getter    interface{ GetInt8(i int) (int8, bool) }
	Int16Getter   interface{ GetInt16(i int) (int16, bool) }
	Int32Getter   interface{ GetInt32(i int) (int32, bool) }
	Int64Getter   interface{ GetInt64(i int) (int64, bool) }
	Float32Getter interface{ GetFloat32(i int) (float32, bool) }
	Float64Getter interface{ GetFloat64(i int) (float64, bool) }
	// StringGetter is implemented by Str32 and Str64 columns. The returned
	// slice shares memory with the column and must not be modified.
	StringGetter interface{ GetString(i int) ([]byte, bool) }
	ObjectGetter interface{ GetObject(i int) (any, bool) }
	// ColumnGetter is implemented by Arr32 columns.
	ColumnGetter interface{ GetColumn(i int) (Column, bool) }
)

// Optional capabilities. Each method returns the representation replacing the
// receiver in the Column handle; returning nil selects the generic behavior.
type (
	// Materializer converts a representation to physical buffers. When
	// toMemory is false the buffers are allocated from the persistent pool of
	// the configuration.
	Materializer interface {
		Materialize(toMemory bool, config *Config) (ColumnImpl, error)
	}

	Repeater interface {
		Repeat(ntimes int) ColumnImpl
	}

	NAPadder interface {
		NAPad(nrows int) ColumnImpl
	}

	Truncater interface {
		Truncate(nrows int) ColumnImpl
	}

	RowIndexApplier interface {
		ApplyRowIndex(ri RowIndex) ColumnImpl
	}

	Caster interface {
		CastReplace(t SType) (ColumnImpl, error)
	}

	// ValueReplacer modifies the receiver in place. It is only called on
	// representations that are not shared.
	ValueReplacer interface {
		ReplaceValues(at RowIndex, with Column) error
	}

	// ParallelAccessor is implemented by representations that cannot be
	// read from multiple goroutines at once. The default is to allow it.
	ParallelAccessor interface {
		AllowParallelAccess() bool
	}

	// ExpensiveColumn is implemented by representations whose element reads
	// are costly, hinting callers to materialize before repeated access.
	ExpensiveColumn interface {
		ComputationallyExpensive() bool
	}

	// IntegrityVerifier checks the internal invariants of a representation.
	IntegrityVerifier interface {
		VerifyIntegrity() error
	}
)

type releaser interface{ release() }

// ColumnBase holds the state common to every column representation. It must
// be embedded in implementations of ColumnImpl and initialized with Init.
type ColumnBase struct {
	stype SType
	nrows int
	refs  atomic.Int32

	mutex sync.Mutex
	stats *Stats
}

// Init sets the storage type and number of rows of the column.
func (b *ColumnBase) Init(t SType, nrows int) {
	b.stype = t
	b.nrows = nrows
}

func (b *ColumnBase) Type() SType               { return b.stype }
func (b *ColumnBase) NRows() int                { return b.nrows }
func (b *ColumnBase) NumChildren() int          { return 0 }
func (b *ColumnBase) NumDataBuffers() int       { return 0 }
func (b *ColumnBase) IsDataEditable(k int) bool { return false }
func (b *ColumnBase) columnBase() *ColumnBase   { return b }

func (b *ColumnBase) Child(i int) Column {
	panic(fmt.Sprintf("datatable: column of type %s has no child %d", b.stype, i))
}

func (b *ColumnBase) DataSize(k int) int        { panic(b.errNoBuffer(k)) }
func (b *ColumnBase) DataReadonly(k int) []byte { panic(b.errNoBuffer(k)) }
func (b *ColumnBase) DataEditable(k int) []byte { panic(b.errNoBuffer(k)) }

func (b *ColumnBase) MemoryFootprint() int { return int(unsafe.Sizeof(*b)) }

func (b *ColumnBase) errNoBuffer(k int) string {
	return fmt.Sprintf("datatable: column of type %s has no data buffer %d", b.stype, k)
}

func (b *ColumnBase) cachedStats(compute func() *Stats) *Stats {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.stats == nil {
		b.stats = compute()
	}
	return b.stats
}

func (b *ColumnBase) peekStats() *Stats {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.stats
}

func (b *ColumnBase) setStats(s *Stats) {
	b.mutex.Lock()
	b.stats = s
	b.mutex.Unlock()
}

func (b *ColumnBase) resetStats() { b.setStats(nil) }

// Column is a handle on a shared column representation. Copying a Column
// value does not take a reference, use Clone to obtain an independent handle;
// operations modifying a column through a handle never affect the other
// handles sharing its representation.
//
// The zero value is an empty handle, most methods panic when called on it.
type Column struct {
	impl ColumnImpl
}

// NewColumn returns a handle taking the first reference on impl.
func NewColumn(impl ColumnImpl) Column {
	impl.columnBase().refs.Inc()
	return Column{impl: impl}
}

// Impl returns the representation of c.
func (c Column) Impl() ColumnImpl { return c.impl }

// IsZero reports whether c is an empty handle.
func (c Column) IsZero() bool { return c.impl == nil }

// RefCount returns the number of handles sharing the representation of c.
func (c Column) RefCount() int {
	if c.impl == nil {
		return 0
	}
	return int(c.impl.columnBase().refs.Load())
}

// Clone returns a new handle on the representation of c. This is a cheap
// operation, the data is copied only when one of the handles is modified.
func (c Column) Clone() Column {
	if c.impl != nil {
		c.impl.columnBase().refs.Inc()
	}
	return c
}

// Release drops the reference held by c and empties the handle. Buffers are
// released when the last reference to the representation is dropped.
func (c *Column) Release() { c.reset(nil) }

func (c *Column) reset(impl ColumnImpl) {
	if impl == c.impl {
		return
	}
	if impl != nil {
		impl.columnBase().refs.Inc()
	}
	old := c.impl
	c.impl = impl
	if old != nil {
		releaseImpl(old)
	}
}

func releaseImpl(impl ColumnImpl) {
	if impl.columnBase().refs.Dec() == 0 {
		if r, ok := impl.(releaser); ok {
			r.release()
		}
	}
}

// retain returns a new handle on impl, taking a reference.
func retain(impl ColumnImpl) Column { return NewColumn(impl) }

// makeExclusive ensures that c is the only handle on its representation,
// cloning it if needed.
func (c *Column) makeExclusive() {
	if c.impl.columnBase().refs.Load() > 1 {
		metrics.copyOnWrite.Inc()
		c.reset(c.impl.Clone())
	}
}

func (c Column) Type() SType          { return c.impl.Type() }
func (c Column) LType() LType         { return c.impl.Type().LType() }
func (c Column) NRows() int           { return c.impl.NRows() }
func (c Column) IsVirtual() bool      { return c.impl.IsVirtual() }
func (c Column) NAStorage() NAStorage { return c.impl.NAStorage() }
func (c Column) NumChildren() int     { return c.impl.NumChildren() }
func (c Column) Child(i int) Column   { return c.impl.Child(i) }
func (c Column) NumDataBuffers() int  { return c.impl.NumDataBuffers() }
func (c Column) DataSize(k int) int   { return c.impl.DataSize(k) }
func (c Column) IsDataEditable(k int) bool {
	return c.impl.columnBase().refs.Load() == 1 && c.impl.IsDataEditable(k)
}

// DataReadonly returns the content of data buffer k. The slice remains valid
// as long as c holds its reference.
func (c Column) DataReadonly(k int) []byte { return c.impl.DataReadonly(k) }

// DataEditable returns data buffer k for modification, copying the
// representation and the buffer first if they are shared. Cached statistics
// are discarded.
func (c *Column) DataEditable(k int) []byte {
	c.makeExclusive()
	c.impl.columnBase().resetStats()
	return c.impl.DataEditable(k)
}

func (c Column) MemoryFootprint() int { return c.impl.MemoryFootprint() }

// AllowParallelAccess reports whether the elements of c can be read from
// multiple goroutines concurrently.
func (c Column) AllowParallelAccess() bool {
	if p, ok := c.impl.(ParallelAccessor); ok {
		return p.AllowParallelAccess()
	}
	return true
}

// ComputationallyExpensive reports whether reading elements of c is costly.
func (c Column) ComputationallyExpensive() bool {
	if e, ok := c.impl.(ExpensiveColumn); ok {
		return e.ComputationallyExpensive()
	}
	return false
}

func (c Column) checkRow(i int) {
	if uint(i) >= uint(c.impl.NRows()) {
		panic(fmt.Sprintf("datatable: row %d out of range for column of %d rows", i, c.impl.NRows()))
	}
}

func (c Column) checkGetter(name string, types ...SType) {
	t := c.impl.Type()
	if t == Void {
		return
	}
	for _, want := range types {
		if t == want {
			return
		}
	}
	panic(fmt.Sprintf("datatable: cannot read %s values from a column of type %s", name, t))
}

// GetBool returns the value of a Bool column at row i.
func (c Column) GetBool(i int) (bool, bool) {
	c.checkRow(i)
	c.checkGetter("bool", Bool)
	if c.impl.Type() == Void {
		return false, false
	}
	v, ok := c.impl.(Int8Getter).GetInt8(i)
	return v != 0, ok
}

func (c Column) GetInt8(i int) (int8, bool) {
	c.checkRow(i)
	c.checkGetter("int8", Bool, Int8)
	if g, ok := c.impl.(Int8Getter); ok {
		return g.GetInt8(i)
	}
	return NAInt8, false
}

func (c Column) GetInt16(i int) (int16, bool) {
	c.checkRow(i)
	c.checkGetter("int16", Int16)
	if g, ok := c.impl.(Int16Getter); ok {
		return g.GetInt16(i)
	}
	return NAInt16, false
}

func (c Column) GetInt32(i int) (int32, bool) {
	c.checkRow(i)
	c.checkGetter("int32", Int32)
	if g, ok := c.impl.(Int32Getter); ok {
		return g.GetInt32(i)
	}
	return NAInt32, false
}

func (c Column) GetInt64(i int) (int64, bool) {
	c.checkRow(i)
	c.checkGetter("int64", Int64)
	if g, ok := c.impl.(Int64Getter); ok {
		return g.GetInt64(i)
	}
	return NAInt64, false
}

func (c Column) GetFloat32(i int) (float32, bool) {
	c.checkRow(i)
	c.checkGetter("float32", Float32)
	if g, ok := c.impl.(Float32Getter); ok {
		return g.GetFloat32(i)
	}
	return NAFloat32, false
}

func (c Column) GetFloat64(i int) (float64, bool) {
	c.checkRow(i)
	c.checkGetter("float64", Float64)
	if g, ok := c.impl.(Float64Getter); ok {
		return g.GetFloat64(i)
	}
	return NAFloat64, false
}

func (c Column) GetString(i int) ([]byte, bool) {
	c.checkRow(i)
	c.checkGetter("string", Str32, Str64)
	if g, ok := c.impl.(StringGetter); ok {
		return g.GetString(i)
	}
	return nil, false
}

func (c Column) GetObject(i int) (any, bool) {
	c.checkRow(i)
	c.checkGetter("object", Obj)
	if g, ok := c.impl.(ObjectGetter); ok {
		return g.GetObject(i)
	}
	return nil, false
}

func (c Column) GetColumn(i int) (Column, bool) {
	c.checkRow(i)
	c.checkGetter("list", Arr32)
	if g, ok := c.impl.(ColumnGetter); ok {
		return g.GetColumn(i)
	}
	return Column{}, false
}

// IsNA reports whether the value at row i is missing.
func (c Column) IsNA(i int) bool {
	_, ok := c.Value(i)
	return !ok
}

// FillNAMask sets mask[i-row0] to whether row i of c is missing, for each
// row in [row0, row1).
func (c Column) FillNAMask(mask []bool, row0, row1 int) {
	if row0 < 0 || row1 > c.NRows() || row1-row0 > len(mask) {
		panic(fmt.Sprintf("datatable: invalid NA mask range [%d, %d) for a column of %d rows and a mask of %d values", row0, row1, c.NRows(), len(mask)))
	}
	for i := row0; i < row1; i++ {
		mask[i-row0] = c.IsNA(i)
	}
}

// Materialize converts c to a representation backed by physical buffers.
// When toMemory is false the buffers are allocated from the persistent buffer
// pool of the configuration, otherwise they live on the heap.
func (c *Column) Materialize(toMemory bool, options ...Option) error {
	config, err := newConfig(options...)
	if err != nil {
		return err
	}
	return c.materialize(toMemory, config)
}

func (c *Column) materialize(toMemory bool, config *Config) error {
	start := time.Now()

	var impl ColumnImpl
	var err error
	if m, ok := c.impl.(Materializer); ok {
		impl, err = m.Materialize(toMemory, config)
	} else {
		impl, err = materializeGeneric(*c, toMemory, config)
	}
	if err != nil {
		return fmt.Errorf("materializing column of type %s: %w", c.Type(), err)
	}
	if impl == nil {
		return nil
	}

	target := "memory"
	if !toMemory {
		target = "persistent"
	}
	level.Debug(config.Logger).Log(
		"msg", "materialized column",
		"stype", c.Type(),
		"nrows", c.NRows(),
		"target", target,
		"duration", time.Since(start),
	)
	metrics.columnsMaterialized.WithLabelValues(target).Inc()
	metrics.materializeSeconds.Observe(time.Since(start).Seconds())
	c.reset(impl)
	return nil
}

// Repeat replaces c with ntimes copies of its values laid end to end.
func (c *Column) Repeat(ntimes int) {
	if ntimes < 0 {
		panic(fmt.Sprintf("datatable: negative repeat count: %d", ntimes))
	}
	if ntimes == 1 {
		return
	}
	if r, ok := c.impl.(Repeater); ok {
		if impl := r.Repeat(ntimes); impl != nil {
			c.reset(impl)
			return
		}
	}
	c.reset(newRepeatedColumn(c.Clone(), ntimes))
}

// NAPad extends c to nrows rows, the new rows holding missing values.
func (c *Column) NAPad(nrows int) {
	n := c.NRows()
	if nrows < n {
		panic(fmt.Sprintf("datatable: cannot pad column of %d rows to %d rows", n, nrows))
	}
	if nrows == n {
		return
	}
	if p, ok := c.impl.(NAPadder); ok {
		if impl := p.NAPad(nrows); impl != nil {
			c.reset(impl)
			return
		}
	}
	c.reset(newNAPaddedColumn(c.Clone(), nrows))
}

// Truncate shrinks c to its first nrows rows.
func (c *Column) Truncate(nrows int) {
	n := c.NRows()
	if nrows > n || nrows < 0 {
		panic(fmt.Sprintf("datatable: cannot truncate column of %d rows to %d rows", n, nrows))
	}
	if nrows == n {
		return
	}
	if t, ok := c.impl.(Truncater); ok {
		if impl := t.Truncate(nrows); impl != nil {
			c.reset(impl)
			return
		}
	}
	c.ApplyRowIndex(NewArithmeticRowIndex(0, nrows, 1))
}

// ApplyRowIndex replaces c with the column of the rows selected by ri.
func (c *Column) ApplyRowIndex(ri RowIndex) {
	if ri.IsAll() {
		return
	}
	if a, ok := c.impl.(RowIndexApplier); ok {
		if impl := a.ApplyRowIndex(ri); impl != nil {
			c.reset(impl)
			return
		}
	}
	c.reset(newViewColumn(c.Clone(), ri))
}

// CastReplace converts c to storage type t. The representation may choose a
// wider type than t when the values cannot be represented in t, for example
// when the string data exceeds the range of 32-bit offsets.
func (c *Column) CastReplace(t SType) error {
	from := c.Type()
	if from == t {
		return nil
	}
	if !canCast(from, t) {
		return &CastError{From: from, To: t}
	}
	if k, ok := c.impl.(Caster); ok {
		impl, err := k.CastReplace(t)
		if err != nil {
			return err
		}
		if impl != nil {
			c.reset(impl)
			return nil
		}
	}
	c.reset(newCastColumn(c.Clone(), t))
	return nil
}

// Cast returns a new handle holding the values of c converted to storage
// type t, leaving c unchanged. The caller must release the returned column.
func (c Column) Cast(t SType) (Column, error) {
	out := c.Clone()
	if err := out.CastReplace(t); err != nil {
		out.Release()
		return Column{}, err
	}
	return out, nil
}

// ReplaceValues writes the rows of with at the positions selected by at.
// The replacement column must hold either one row, which is broadcast to
// every position, or as many rows as at selects. Its values are cast to the
// type of c.
func (c *Column) ReplaceValues(at RowIndex, with Column, options ...Option) error {
	nrows := c.NRows()
	size := at.Size(nrows)
	if with.NRows() != 1 && with.NRows() != size {
		return fmt.Errorf("cannot replace %d rows with a column of %d rows", size, with.NRows())
	}
	if lo, hi, ok := at.MinMax(nrows); ok && (lo < 0 || hi >= nrows) {
		return fmt.Errorf("replacement rows [%d, %d] out of range for column of %d rows", lo, hi, nrows)
	}
	if at.HasNA() {
		return fmt.Errorf("replacement row index must not contain missing rows")
	}
	if size == 0 {
		return nil
	}

	config, err := newConfig(options...)
	if err != nil {
		return err
	}

	with = with.Clone()
	defer with.Release()
	if err := with.CastReplace(c.Type()); err != nil {
		return err
	}
	if err := with.materialize(true, config); err != nil {
		return err
	}

	c.makeExclusive()
	if r, ok := c.impl.(ValueReplacer); ok {
		if err := r.ReplaceValues(at, with); err != ErrNotSupported {
			c.impl.columnBase().resetStats()
			return err
		}
	}
	impl, err := replaceGeneric(*c, at, with)
	if err != nil {
		return err
	}
	c.reset(impl)
	return nil
}

// VerifyIntegrity checks the internal invariants of the representation of c
// and of its children.
func (c Column) VerifyIntegrity() error {
	if c.impl == nil {
		return fmt.Errorf("empty column handle")
	}
	if c.impl.NRows() < 0 {
		return fmt.Errorf("column of type %s has a negative number of rows", c.Type())
	}
	if c.impl.columnBase().refs.Load() <= 0 {
		return fmt.Errorf("column of type %s is referenced by a released handle", c.Type())
	}
	for k := 0; k < c.impl.NumDataBuffers(); k++ {
		if n := len(c.impl.DataReadonly(k)); n < c.impl.DataSize(k) {
			return fmt.Errorf("column of type %s: buffer %d holds %d bytes, expected at least %d", c.Type(), k, n, c.impl.DataSize(k))
		}
	}
	for i := 0; i < c.impl.NumChildren(); i++ {
		if err := c.impl.Child(i).VerifyIntegrity(); err != nil {
			return fmt.Errorf("child %d: %w", i, err)
		}
	}
	if v, ok := c.impl.(IntegrityVerifier); ok {
		return v.VerifyIntegrity()
	}
	return nil
}

func (c Column) String() string {
	if c.impl == nil {
		return "Column<nil>"
	}
	return fmt.Sprintf("Column<%s, %d rows, %T>", c.Type(), c.NRows(), c.impl)
}

// Package param implements the typed parameter system: ranged floats,
// discrete ints, toggles and enums over lock-free atomic storage, with
// range mappers, display formatters, smoothing and path-keyed state.
package param

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"
)

// Param is the behavior every typed parameter shares. Normalized reads and
// writes are lock-free and may be called from any thread, including the
// audio thread. Format and Parse may allocate and must stay off the audio
// thread.
type Param interface {
	Info() *Info
	Normalized() float64
	SetNormalized(v float64)
	ToPlain(normalized float64) float64
	ToNormalized(plain float64) float64
	Format(normalized float64) string
	Parse(s string) (normalized float64, err error)
	// Smoother returns the parameter's smoother, or nil when the parameter
	// does not smooth.
	Smoother() *Smoother
}

// atomicValue stores a normalized float64 as its IEEE-754 bits so reads
// and writes are single atomic operations.
type atomicValue struct {
	bits atomic.Uint64
}

func (a *atomicValue) load() float64 { return math.Float64frombits(a.bits.Load()) }

func (a *atomicValue) store(v float64) { a.bits.Store(math.Float64bits(clamp01(v))) }

// Float is a continuous parameter over a mapped range.
type Float struct {
	info      Info
	value     atomicValue
	mapper    Mapper
	formatter Formatter
	smoother  *Smoother
}

// FloatBuilder configures a Float fluently. Construction happens once at
// plugin definition time; the builder is not used afterwards.
type FloatBuilder struct {
	p   *Float
	err error
}

// NewFloat starts building a float parameter with the given stable key and
// display name. The runtime ID is HashID(key). The default range is [0,1]
// linear with a plain formatter.
func NewFloat(key, name string) *FloatBuilder {
	return &FloatBuilder{p: &Float{
		info: Info{
			ID:        HashID(key),
			Key:       key,
			Name:      name,
			ShortName: name,
			Flags:     CanAutomate,
		},
		mapper:    LinearMapper{Min: 0, Max: 1},
		formatter: PlainFormatter{Decimals: 2},
	}}
}

// Range sets a linear plain range.
func (b *FloatBuilder) Range(min, max float64) *FloatBuilder {
	b.p.mapper = LinearMapper{Min: min, Max: max}
	return b
}

// LogRange sets a logarithmic plain range; both endpoints must be
// strictly positive.
func (b *FloatBuilder) LogRange(min, max float64) *FloatBuilder {
	m, err := NewLogMapper(min, max)
	if err != nil && b.err == nil {
		b.err = err
	}
	b.p.mapper = m
	return b
}

// LogOffsetRange sets a log-shaped range that may touch or cross zero.
func (b *FloatBuilder) LogOffsetRange(min, max float64) *FloatBuilder {
	m, err := NewLogOffsetMapper(min, max)
	if err != nil && b.err == nil {
		b.err = err
	}
	b.p.mapper = m
	return b
}

// PowRange sets a power-curve range.
func (b *FloatBuilder) PowRange(min, max, exponent float64) *FloatBuilder {
	b.p.mapper = PowMapper{Min: min, Max: max, Exponent: exponent}
	return b
}

// Formatter sets the display formatter.
func (b *FloatBuilder) Formatter(f Formatter) *FloatBuilder {
	b.p.formatter = f
	return b
}

// Unit sets the unit string reported in parameter metadata.
func (b *FloatBuilder) Unit(u string) *FloatBuilder {
	b.p.info.Units = u
	return b
}

// ShortName sets the abbreviated display name.
func (b *FloatBuilder) ShortName(n string) *FloatBuilder {
	b.p.info.ShortName = n
	return b
}

// Default sets the default in plain units.
func (b *FloatBuilder) Default(plain float64) *FloatBuilder {
	b.p.info.DefaultNormalized = b.p.mapper.Normalize(plain)
	return b
}

// Smooth attaches a smoother.
func (b *FloatBuilder) Smooth(style SmoothStyle, timeMs float64) *FloatBuilder {
	b.p.smoother = NewSmoother(style, timeMs)
	return b
}

// Group assigns the parameter to a group.
func (b *FloatBuilder) Group(id int32) *FloatBuilder {
	b.p.info.GroupID = id
	return b
}

// Flags replaces the parameter flags.
func (b *FloatBuilder) Flags(f Flags) *FloatBuilder {
	b.p.info.Flags = f
	return b
}

// Hidden marks the parameter hidden.
func (b *FloatBuilder) Hidden() *FloatBuilder {
	b.p.info.Flags |= IsHidden
	return b
}

// WithID replaces the key-derived ID. Used for reserved ID ranges that
// must not collide with hashed keys.
func (b *FloatBuilder) WithID(id uint32) *FloatBuilder {
	b.p.info.ID = id
	return b
}

// Build finalizes the parameter, seeding the value and smoother with the
// default. Range construction errors surface here.
func (b *FloatBuilder) Build() (*Float, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.p.value.store(b.p.info.DefaultNormalized)
	if b.p.smoother != nil {
		b.p.smoother.Reset(b.p.ToPlain(b.p.info.DefaultNormalized))
	}
	return b.p, nil
}

// MustBuild is Build for static definitions where the range is known good.
func (b *FloatBuilder) MustBuild() *Float {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}

// Info implements Param.
func (p *Float) Info() *Info { return &p.info }

// Normalized implements Param.
func (p *Float) Normalized() float64 { return p.value.load() }

// SetNormalized implements Param. The value is clamped to [0,1].
func (p *Float) SetNormalized(v float64) { p.value.store(v) }

// Plain returns the current value in plain units.
func (p *Float) Plain() float64 { return p.ToPlain(p.Normalized()) }

// SetPlain sets the value from plain units.
func (p *Float) SetPlain(v float64) { p.SetNormalized(p.ToNormalized(v)) }

// ToPlain implements Param.
func (p *Float) ToPlain(n float64) float64 { return p.mapper.Denormalize(n) }

// ToNormalized implements Param.
func (p *Float) ToNormalized(plain float64) float64 { return p.mapper.Normalize(plain) }

// Format implements Param.
func (p *Float) Format(n float64) string { return p.formatter.Format(p.ToPlain(n)) }

// Parse implements Param.
func (p *Float) Parse(s string) (float64, error) {
	plain, err := p.formatter.Parse(s)
	if err != nil {
		return 0, err
	}
	return p.ToNormalized(plain), nil
}

// Smoother implements Param.
func (p *Float) Smoother() *Smoother { return p.smoother }

// SyncSmoother points the smoother at the current plain value. Called at
// block boundaries on the audio thread after parameter events have been
// applied.
func (p *Float) SyncSmoother() {
	if p.smoother != nil {
		p.smoother.SetTarget(p.Plain())
	}
}

// Int is a discrete stepped parameter over an integer range.
type Int struct {
	info      Info
	value     atomicValue
	min, max  int64
	formatter Formatter
}

// NewInt builds an int parameter spanning [min,max] inclusive.
func NewInt(key, name string, min, max int64, def int64) *Int {
	p := &Int{
		info: Info{
			ID:        HashID(key),
			Key:       key,
			Name:      name,
			ShortName: name,
			StepCount: int32(max - min),
			Flags:     CanAutomate,
		},
		min: min,
		max: max,
	}
	p.info.DefaultNormalized = p.ToNormalized(float64(def))
	p.value.store(p.info.DefaultNormalized)
	return p
}

// SetGroup assigns the parameter to a group and returns it for chaining in
// definitions.
func (p *Int) SetGroup(id int32) *Int {
	p.info.GroupID = id
	return p
}

// WithFormatter overrides the display formatter and returns the parameter.
func (p *Int) WithFormatter(f Formatter) *Int {
	p.formatter = f
	return p
}

// Info implements Param.
func (p *Int) Info() *Info { return &p.info }

// Normalized implements Param.
func (p *Int) Normalized() float64 { return p.value.load() }

// SetNormalized implements Param.
func (p *Int) SetNormalized(v float64) { p.value.store(v) }

// ToPlain implements Param, rounding to the nearest step.
func (p *Int) ToPlain(n float64) float64 {
	steps := float64(p.max - p.min)
	return float64(p.min) + math.Round(clamp01(n)*steps)
}

// ToNormalized implements Param.
func (p *Int) ToNormalized(plain float64) float64 {
	steps := float64(p.max - p.min)
	if steps == 0 {
		return 0
	}
	return clamp01((plain - float64(p.min)) / steps)
}

// PlainInt returns the current stepped value.
func (p *Int) PlainInt() int64 { return int64(p.ToPlain(p.Normalized())) }

// Format implements Param.
func (p *Int) Format(n float64) string {
	v := int64(p.ToPlain(n))
	if p.formatter != nil {
		return p.formatter.Format(float64(v))
	}
	if p.info.Units != "" {
		return fmt.Sprintf("%d %s", v, p.info.Units)
	}
	return strconv.FormatInt(v, 10)
}

// Parse implements Param.
func (p *Int) Parse(s string) (float64, error) {
	if p.formatter != nil {
		plain, err := p.formatter.Parse(s)
		if err != nil {
			return 0, err
		}
		return p.ToNormalized(plain), nil
	}
	v, err := strconv.ParseInt(trimUnit(s, p.info.Units), 10, 64)
	if err != nil {
		return 0, err
	}
	return p.ToNormalized(float64(v)), nil
}

// Smoother implements Param; int parameters never smooth.
func (p *Int) Smoother() *Smoother { return nil }

// Bool is a two-state toggle.
type Bool struct {
	info  Info
	value atomicValue
}

// NewBool builds a toggle parameter.
func NewBool(key, name string, def bool) *Bool {
	p := &Bool{info: Info{
		ID:        HashID(key),
		Key:       key,
		Name:      name,
		ShortName: name,
		StepCount: 1,
		Flags:     CanAutomate,
	}}
	if def {
		p.info.DefaultNormalized = 1
	}
	p.value.store(p.info.DefaultNormalized)
	return p
}

// Bypass marks this as the plugin's bypass toggle and returns it.
func (p *Bool) Bypass() *Bool {
	p.info.Flags |= IsBypass
	return p
}

// SetGroup assigns the parameter to a group and returns it.
func (p *Bool) SetGroup(id int32) *Bool {
	p.info.GroupID = id
	return p
}

// Info implements Param.
func (p *Bool) Info() *Info { return &p.info }

// Normalized implements Param.
func (p *Bool) Normalized() float64 { return p.value.load() }

// SetNormalized implements Param.
func (p *Bool) SetNormalized(v float64) { p.value.store(v) }

// Value returns the toggle state.
func (p *Bool) Value() bool { return p.Normalized() > 0.5 }

// SetValue sets the toggle state.
func (p *Bool) SetValue(on bool) {
	if on {
		p.SetNormalized(1)
	} else {
		p.SetNormalized(0)
	}
}

// ToPlain implements Param.
func (p *Bool) ToPlain(n float64) float64 {
	if n > 0.5 {
		return 1
	}
	return 0
}

// ToNormalized implements Param.
func (p *Bool) ToNormalized(plain float64) float64 { return p.ToPlain(plain) }

// Format implements Param.
func (p *Bool) Format(n float64) string { return OnOffFormatter{}.Format(n) }

// Parse implements Param.
func (p *Bool) Parse(s string) (float64, error) { return OnOffFormatter{}.Parse(s) }

// Smoother implements Param.
func (p *Bool) Smoother() *Smoother { return nil }

// EnumValues is the contract the code generator emits for a plain enum
// type: a closed set of labeled variants addressable by index.
type EnumValues interface {
	EnumCount() int
	EnumName(index int) string
}

// Enum is a discrete parameter over a closed set of labeled variants.
type Enum struct {
	info  Info
	value atomicValue
	names []string
}

// NewEnum builds an enum parameter from its variant names.
func NewEnum(key, name string, defIndex int, names ...string) *Enum {
	p := &Enum{
		info: Info{
			ID:        HashID(key),
			Key:       key,
			Name:      name,
			ShortName: name,
			StepCount: int32(len(names) - 1),
			Flags:     CanAutomate | IsList,
		},
		names: names,
	}
	p.info.DefaultNormalized = p.ToNormalized(float64(defIndex))
	p.value.store(p.info.DefaultNormalized)
	return p
}

// NewEnumOf builds an enum parameter from a generated EnumValues table.
func NewEnumOf(key, name string, values EnumValues, defIndex int) *Enum {
	names := make([]string, values.EnumCount())
	for i := range names {
		names[i] = values.EnumName(i)
	}
	return NewEnum(key, name, defIndex, names...)
}

// SetGroup assigns the parameter to a group and returns it.
func (p *Enum) SetGroup(id int32) *Enum {
	p.info.GroupID = id
	return p
}

// Info implements Param.
func (p *Enum) Info() *Info { return &p.info }

// Normalized implements Param.
func (p *Enum) Normalized() float64 { return p.value.load() }

// SetNormalized implements Param.
func (p *Enum) SetNormalized(v float64) { p.value.store(v) }

// Index returns the current variant index.
func (p *Enum) Index() int { return int(p.ToPlain(p.Normalized())) }

// SetIndex selects a variant by index.
func (p *Enum) SetIndex(i int) { p.SetNormalized(p.ToNormalized(float64(i))) }

// ToPlain implements Param; plain values are variant indices.
func (p *Enum) ToPlain(n float64) float64 {
	steps := float64(len(p.names) - 1)
	if steps <= 0 {
		return 0
	}
	return math.Round(clamp01(n) * steps)
}

// ToNormalized implements Param.
func (p *Enum) ToNormalized(plain float64) float64 {
	steps := float64(len(p.names) - 1)
	if steps <= 0 {
		return 0
	}
	return clamp01(plain / steps)
}

// Format implements Param.
func (p *Enum) Format(n float64) string {
	i := int(p.ToPlain(n))
	if i < 0 || i >= len(p.names) {
		return ""
	}
	return p.names[i]
}

// Parse implements Param.
func (p *Enum) Parse(s string) (float64, error) {
	for i, name := range p.names {
		if name == s {
			return p.ToNormalized(float64(i)), nil
		}
	}
	return 0, fmt.Errorf("unknown variant %q", s)
}

// Smoother implements Param.
func (p *Enum) Smoother() *Smoother { return nil }

func trimUnit(s, unit string) string {
	s = strings.TrimSpace(s)
	if unit != "" {
		s = strings.TrimSpace(strings.TrimSuffix(s, unit))
	}
	return s
}

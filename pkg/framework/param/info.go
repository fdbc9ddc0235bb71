package param

// Flags describes parameter behavior to the host.
type Flags uint32

const (
	// CanAutomate marks the parameter as automatable.
	CanAutomate Flags = 1 << 0
	// IsReadOnly marks the parameter as read-only (meters, outputs).
	IsReadOnly Flags = 1 << 1
	// IsBypass marks this as the plugin's bypass parameter.
	IsBypass Flags = 1 << 2
	// IsList marks a discrete parameter the host should render as a list.
	IsList Flags = 1 << 3
	// IsHidden keeps the parameter out of host-facing lists; used by the
	// MIDI-CC bridge parameters.
	IsHidden Flags = 1 << 4
)

// Info is a parameter's immutable metadata. It is created at construction
// and never mutated afterward, so it may be read from any thread.
type Info struct {
	// ID is the 32-bit runtime identifier, HashID(Key) for authored
	// parameters.
	ID uint32
	// Key is the stable string identifier the ID is derived from; it also
	// terminates the parameter's serialization path.
	Key string

	Name      string
	ShortName string
	Units     string

	// DefaultNormalized is the default value in [0,1].
	DefaultNormalized float64
	// StepCount is 0 for continuous, 1 for toggles, >1 for discrete.
	StepCount int32
	Flags     Flags
	// GroupID places the parameter in the group forest; 0 is the root.
	GroupID int32
}

// Automatable reports whether the host may automate the parameter.
func (i *Info) Automatable() bool { return i.Flags&CanAutomate != 0 }

// Hidden reports whether the parameter is hidden from host lists.
func (i *Info) Hidden() bool { return i.Flags&IsHidden != 0 }

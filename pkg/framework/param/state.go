package param

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/beamer-audio/beamer-go/pkg/framework/fwerr"
)

// State records are path-keyed so a saved project survives parameter
// reordering and renumbering:
//
//	record := [u8 path_len] [path_len bytes UTF-8] [8 bytes f64 LE]
//
// The path is the parameter's group names joined by "/" and terminated by
// its stable key. Unknown paths are skipped on load; values are clamped to
// [0,1].

// statePath builds the serialization path for a parameter.
func statePath(groups *GroupTable, p Param) string {
	info := p.Info()
	parts := groups.Path(info.GroupID)
	parts = append(parts, info.Key)
	return strings.Join(parts, "/")
}

// SaveState writes every parameter of the registry to w in definition
// order.
func (r *Registry) SaveState(w io.Writer) error {
	var val [8]byte
	for _, p := range r.params {
		path := statePath(r.groups, p)
		if len(path) > 255 {
			return fmt.Errorf("%w: parameter path %q exceeds 255 bytes", fwerr.ErrStateFormat, path)
		}
		if _, err := w.Write([]byte{byte(len(path))}); err != nil {
			return err
		}
		if _, err := io.WriteString(w, path); err != nil {
			return err
		}
		binary.LittleEndian.PutUint64(val[:], math.Float64bits(p.Normalized()))
		if _, err := w.Write(val[:]); err != nil {
			return err
		}
	}
	return nil
}

// LoadState reads records from r until EOF. Records whose path matches no
// parameter are skipped; matching values are clamped into [0,1]. A
// truncated record fails with ErrStateFormat and leaves already-applied
// values in place.
func (r *Registry) LoadState(src io.Reader) error {
	byPath := make(map[string]Param, len(r.params))
	for _, p := range r.params {
		byPath[statePath(r.groups, p)] = p
	}

	var lenBuf [1]byte
	rec := make([]byte, 255+8)
	for {
		if _, err := io.ReadFull(src, lenBuf[:]); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("%w: reading path length: %v", fwerr.ErrStateFormat, err)
		}
		n := int(lenBuf[0])
		body := rec[:n+8]
		if _, err := io.ReadFull(src, body); err != nil {
			return fmt.Errorf("%w: truncated record: %v", fwerr.ErrStateFormat, err)
		}
		path := string(body[:n])
		bits := binary.LittleEndian.Uint64(body[n:])
		v := math.Float64frombits(bits)
		if math.IsNaN(v) {
			continue
		}
		if p, ok := byPath[path]; ok {
			p.SetNormalized(clamp01(v))
		}
	}
}

// StateBytes serializes the registry to a byte slice.
func (r *Registry) StateBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.SaveState(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadStateBytes applies a serialized snapshot.
func (r *Registry) LoadStateBytes(data []byte) error {
	return r.LoadState(bytes.NewReader(data))
}

// ValidateState checks that data parses as whole records without applying
// anything. Callers use it to reject a malformed snapshot before touching
// live values.
func ValidateState(data []byte) error {
	for len(data) > 0 {
		n := int(data[0])
		if len(data) < 1+n+8 {
			return fmt.Errorf("%w: truncated record", fwerr.ErrStateFormat)
		}
		data = data[1+n+8:]
	}
	return nil
}

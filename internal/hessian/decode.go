package hessian

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// decoder reads Hessian 1.0 values from a byte stream. Decoded lists and
// maps are recorded so back-references ('R') can resolve to them.
type decoder struct {
	r    *bufio.Reader
	refs []interface{}
}

func newDecoder(r io.Reader) *decoder {
	return &decoder{r: bufio.NewReader(r)}
}

// readReply consumes a complete reply frame. It returns the result value,
// a *Fault error for fault replies, or a decode error. Reply headers are
// read and discarded.
func (d *decoder) readReply() (interface{}, error) {
	tag, err := d.r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading reply tag: %w", err)
	}
	if tag != 'r' {
		return nil, fmt.Errorf("unexpected reply tag %q", tag)
	}

	// major and minor version bytes
	var version [2]byte
	if _, err := io.ReadFull(d.r, version[:]); err != nil {
		return nil, fmt.Errorf("reading reply version: %w", err)
	}

	for {
		tag, err := d.r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("reading reply body: %w", err)
		}

		switch tag {
		case 'H':
			// header: name and value, both discarded
			if _, err := d.readLenString(); err != nil {
				return nil, err
			}
			if _, err := d.readValue(); err != nil {
				return nil, err
			}
		case 'f':
			return nil, d.readFault()
		default:
			value, err := d.readValueTag(tag)
			if err != nil {
				return nil, err
			}
			end, err := d.r.ReadByte()
			if err != nil {
				return nil, fmt.Errorf("reading reply terminator: %w", err)
			}
			if end != 'z' {
				return nil, fmt.Errorf("unexpected reply terminator %q", end)
			}
			return value, nil
		}
	}
}

// readFault decodes the key/value pairs of a fault frame up to and
// including the terminating 'z' and returns them as a *Fault.
func (d *decoder) readFault() error {
	fault := &Fault{}
	for {
		tag, err := d.r.ReadByte()
		if err != nil {
			return fmt.Errorf("reading fault: %w", err)
		}
		if tag == 'z' {
			return fault
		}

		key, err := d.readValueTag(tag)
		if err != nil {
			return fmt.Errorf("reading fault key: %w", err)
		}
		value, err := d.readValue()
		if err != nil {
			return fmt.Errorf("reading fault value: %w", err)
		}

		name, _ := key.(string)
		switch name {
		case "code":
			if s, ok := value.(string); ok {
				fault.Code = s
			}
		case "message":
			if s, ok := value.(string); ok {
				fault.Message = s
			}
		case "detail":
			fault.Detail = value
		}
	}
}

// readValue reads the next tag and decodes the value it introduces.
func (d *decoder) readValue() (interface{}, error) {
	tag, err := d.r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading value tag: %w", err)
	}
	return d.readValueTag(tag)
}

// readValueTag decodes the value whose tag byte has already been consumed.
func (d *decoder) readValueTag(tag byte) (interface{}, error) {
	switch tag {
	case 'N':
		return nil, nil
	case 'T':
		return true, nil
	case 'F':
		return false, nil
	case 'I':
		u, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		return int32(u), nil
	case 'L':
		u, err := d.readUint64()
		if err != nil {
			return nil, err
		}
		return int64(u), nil
	case 'D':
		u, err := d.readUint64()
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(u), nil
	case 'd':
		u, err := d.readUint64()
		if err != nil {
			return nil, err
		}
		return time.UnixMilli(int64(u)).UTC(), nil
	case 'S', 's', 'X', 'x':
		return d.readStringTag(tag)
	case 'B', 'b':
		return d.readBytesTag(tag)
	case 'V':
		return d.readList()
	case 'M':
		return d.readMap()
	case 'R':
		u, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		idx := int(int32(u))
		if idx < 0 || idx >= len(d.refs) {
			return nil, fmt.Errorf("reference %d out of range", idx)
		}
		return d.refs[idx], nil
	default:
		return nil, fmt.Errorf("unsupported value tag %q", tag)
	}
}

// readStringTag decodes a possibly chunked string whose first tag has been
// consumed. 's'/'x' chunks are followed by further chunks; 'S'/'X' is final.
func (d *decoder) readStringTag(tag byte) (string, error) {
	var sb strings.Builder
	for {
		n, err := d.readUint16()
		if err != nil {
			return "", err
		}
		if err := d.readChars(&sb, int(n)); err != nil {
			return "", err
		}
		if tag == 'S' || tag == 'X' {
			return sb.String(), nil
		}

		tag, err = d.r.ReadByte()
		if err != nil {
			return "", fmt.Errorf("reading string chunk tag: %w", err)
		}
		switch tag {
		case 'S', 's', 'X', 'x':
		default:
			return "", fmt.Errorf("unexpected string chunk tag %q", tag)
		}
	}
}

// readChars appends n UTF-8 encoded characters to sb.
func (d *decoder) readChars(sb *strings.Builder, n int) error {
	for i := 0; i < n; i++ {
		r, size, err := d.r.ReadRune()
		if err != nil {
			return fmt.Errorf("reading string character: %w", err)
		}
		if r == utf8.RuneError && size == 1 {
			return fmt.Errorf("invalid UTF-8 in string")
		}
		sb.WriteRune(r)
	}
	return nil
}

// readBytesTag decodes a possibly chunked byte array whose first tag has
// been consumed.
func (d *decoder) readBytesTag(tag byte) ([]byte, error) {
	var out []byte
	for {
		n, err := d.readUint16()
		if err != nil {
			return nil, err
		}
		chunk := make([]byte, n)
		if _, err := io.ReadFull(d.r, chunk); err != nil {
			return nil, fmt.Errorf("reading byte chunk: %w", err)
		}
		out = append(out, chunk...)
		if tag == 'B' {
			return out, nil
		}

		tag, err = d.r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("reading byte chunk tag: %w", err)
		}
		if tag != 'B' && tag != 'b' {
			return nil, fmt.Errorf("unexpected byte chunk tag %q", tag)
		}
	}
}

// readList decodes a 'V' list. The optional type ('t') and length ('l')
// prefixes are consumed and discarded; decoding relies on the 'z'
// terminator.
func (d *decoder) readList() (interface{}, error) {
	tag, err := d.r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading list: %w", err)
	}
	if tag == 't' {
		if _, err := d.readLenString(); err != nil {
			return nil, err
		}
		if tag, err = d.r.ReadByte(); err != nil {
			return nil, fmt.Errorf("reading list: %w", err)
		}
	}
	if tag == 'l' {
		if _, err := d.readUint32(); err != nil {
			return nil, err
		}
		if tag, err = d.r.ReadByte(); err != nil {
			return nil, fmt.Errorf("reading list: %w", err)
		}
	}

	// Register before filling so references keep encounter order.
	idx := len(d.refs)
	d.refs = append(d.refs, nil)

	var list []interface{}
	for tag != 'z' {
		value, err := d.readValueTag(tag)
		if err != nil {
			return nil, err
		}
		list = append(list, value)

		if tag, err = d.r.ReadByte(); err != nil {
			return nil, fmt.Errorf("reading list: %w", err)
		}
	}

	d.refs[idx] = list
	return list, nil
}

// readMap decodes an 'M' map with string keys. The optional type prefix is
// discarded.
func (d *decoder) readMap() (interface{}, error) {
	tag, err := d.r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading map: %w", err)
	}
	if tag == 't' {
		if _, err := d.readLenString(); err != nil {
			return nil, err
		}
		if tag, err = d.r.ReadByte(); err != nil {
			return nil, fmt.Errorf("reading map: %w", err)
		}
	}

	idx := len(d.refs)
	d.refs = append(d.refs, nil)

	m := make(map[string]interface{})
	for tag != 'z' {
		key, err := d.readValueTag(tag)
		if err != nil {
			return nil, fmt.Errorf("reading map key: %w", err)
		}
		name, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("unsupported map key type %T", key)
		}
		value, err := d.readValue()
		if err != nil {
			return nil, fmt.Errorf("reading map value: %w", err)
		}
		m[name] = value

		if tag, err = d.r.ReadByte(); err != nil {
			return nil, fmt.Errorf("reading map: %w", err)
		}
	}

	d.refs[idx] = m
	return m, nil
}

// readLenString reads a bare length-prefixed string, the form used by
// method names, type names, and header names.
func (d *decoder) readLenString() (string, error) {
	n, err := d.readUint16()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := d.readChars(&sb, int(n)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (d *decoder) readUint16() (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, fmt.Errorf("reading length: %w", err)
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (d *decoder) readUint32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, fmt.Errorf("reading int: %w", err)
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func (d *decoder) readUint64() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, fmt.Errorf("reading long: %w", err)
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

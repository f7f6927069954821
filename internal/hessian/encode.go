package hessian

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// maxChunk is the largest number of characters carried by one string chunk.
const maxChunk = 0x8000

// encodeCall serializes a method invocation per the call grammar:
// 'c' major minor 'm' method-name args... 'z'. No headers are written.
func encodeCall(method string, args []interface{}) ([]byte, error) {
	if method == "" {
		return nil, fmt.Errorf("method name is required")
	}
	if len(method) > 0xffff {
		return nil, fmt.Errorf("method name too long (%d bytes)", len(method))
	}

	var buf bytes.Buffer
	buf.WriteByte('c')
	buf.WriteByte(0x01)
	buf.WriteByte(0x00)
	buf.WriteByte('m')
	writeUint16(&buf, uint16(len(method)))
	buf.WriteString(method)

	for _, arg := range args {
		if err := writeValue(&buf, arg); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('z')
	return buf.Bytes(), nil
}

// writeValue serializes one argument value.
func writeValue(buf *bytes.Buffer, v interface{}) error {
	switch val := v.(type) {
	case nil:
		buf.WriteByte('N')
	case bool:
		if val {
			buf.WriteByte('T')
		} else {
			buf.WriteByte('F')
		}
	case int:
		if val < math.MinInt32 || val > math.MaxInt32 {
			writeLong(buf, int64(val))
		} else {
			writeInt(buf, int32(val))
		}
	case int32:
		writeInt(buf, val)
	case int64:
		writeLong(buf, val)
	case float64:
		buf.WriteByte('D')
		writeUint64(buf, math.Float64bits(val))
	case string:
		writeString(buf, val)
	case time.Time:
		buf.WriteByte('d')
		writeUint64(buf, uint64(val.UnixMilli()))
	case []byte:
		if len(val) > 0xffff {
			return fmt.Errorf("byte argument too long (%d bytes)", len(val))
		}
		buf.WriteByte('B')
		writeUint16(buf, uint16(len(val)))
		buf.Write(val)
	case []interface{}:
		buf.WriteByte('V')
		for _, item := range val {
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte('z')
	case map[string]interface{}:
		buf.WriteByte('M')
		for key, item := range val {
			writeString(buf, key)
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte('z')
	default:
		return fmt.Errorf("unsupported argument type %T", v)
	}
	return nil
}

// writeString serializes a string, splitting it into 's' chunks when it
// exceeds the chunk size, ending with a final 'S' chunk. Lengths count
// characters, not bytes.
func writeString(buf *bytes.Buffer, s string) {
	runes := []rune(s)
	for len(runes) > maxChunk {
		buf.WriteByte('s')
		writeUint16(buf, uint16(maxChunk))
		buf.WriteString(string(runes[:maxChunk]))
		runes = runes[maxChunk:]
	}
	buf.WriteByte('S')
	writeUint16(buf, uint16(len(runes)))
	buf.WriteString(string(runes))
}

func writeInt(buf *bytes.Buffer, v int32) {
	buf.WriteByte('I')
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func writeLong(buf *bytes.Buffer, v int64) {
	buf.WriteByte('L')
	writeUint64(buf, uint64(v))
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

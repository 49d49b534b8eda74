package boxes_test

import "encoding/binary"

// box builds one compact-header box with name and body.
func box(name string, body []byte) []byte {
	buf := make([]byte, 8+len(body))
	binary.BigEndian.PutUint32(buf[0:4], uint32(8+len(body)))
	copy(buf[4:8], name)
	copy(buf[8:], body)

	return buf
}

func u8(v uint8) []byte { return []byte{v} }

func u16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)

	return b
}

func u24(v uint32) []byte {
	return []byte{byte(v >> 16), byte(v >> 8), byte(v)}
}

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)

	return b
}

func i16(v int16) []byte { return u16(uint16(v)) }

func fullBox(version uint8, flags uint32, rest []byte) []byte {
	return concat(u8(version), u24(flags), rest)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

func zeros(n int) []byte { return make([]byte, n) }

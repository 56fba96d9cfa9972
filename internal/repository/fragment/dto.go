package fragment

import (
	"encoding/binary"
	"math"

	domfrag "github.com/voyatic/tripdex/internal/domain/fragment"
)

// buildHashFields converts a domain Fragment into a flat map[string]string
// for HSET. Attribute names never collide with the reserved double
// underscore fields; domain validation rejects unknown attributes.
func buildHashFields(frag *domfrag.Fragment) map[string]string {
	m := make(map[string]string, 3+len(frag.Attributes()))
	m["__content"] = frag.Body()
	m["__source"] = frag.Source()
	m["__vector"] = vectorToBytes(frag.Vector())
	for k, v := range frag.Attributes() {
		m[k] = v
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Fragment.
func parseHashFields(id string, m map[string]string) domfrag.Fragment {
	var body, source string
	var vector []float32
	attrs := make(map[string]string)

	for k, v := range m {
		switch k {
		case "__content":
			body = v
		case "__source":
			source = v
		case "__vector":
			vector = bytesToVector(v)
		default:
			attrs[k] = v
		}
	}

	return domfrag.Reconstruct(id, body, source, attrs, vector)
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}

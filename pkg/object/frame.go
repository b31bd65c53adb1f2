package object

import (
	"bytes"
	"fmt"
	"strconv"
)

// Frame wraps payload in the "type len\0" envelope that every object is
// hashed and stored with.
func Frame(objType ObjectType, payload []byte) []byte {
	header := strconv.AppendInt(append([]byte(objType), ' '), int64(len(payload)), 10)
	out := make([]byte, 0, len(header)+1+len(payload))
	out = append(out, header...)
	out = append(out, 0)
	return append(out, payload...)
}

// ParseFrame splits a framed object into its type and payload. The declared
// length must match the payload exactly.
func ParseFrame(raw []byte) (ObjectType, []byte, error) {
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("%w: invalid format (no NUL)", ErrCorruptObject)
	}
	header := raw[:nulIdx]
	payload := raw[nulIdx+1:]

	typ, size, ok := bytes.Cut(header, []byte{' '})
	if !ok {
		return "", nil, fmt.Errorf("%w: invalid header %q", ErrCorruptObject, header)
	}
	objType := ObjectType(typ)
	if !objType.Valid() {
		return "", nil, fmt.Errorf("%w: unknown object type %q", ErrCorruptObject, typ)
	}
	length, err := parseLength(size)
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid length %q", ErrCorruptObject, size)
	}
	if len(payload) != length {
		return "", nil, fmt.Errorf("%w: length mismatch (header=%d, actual=%d)", ErrCorruptObject, length, len(payload))
	}
	return objType, payload, nil
}

// parseLength accepts only the canonical decimal form Frame writes: ASCII
// digits, no sign, no leading zero unless the length is 0.
func parseLength(b []byte) (int, error) {
	if len(b) == 0 || (len(b) > 1 && b[0] == '0') {
		return 0, strconv.ErrSyntax
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(string(b))
}

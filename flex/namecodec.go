package flex

import (
	"bytes"
	"fmt"
)

// validNameByte reports whether b is allowed in an 8+3 filename or an
// 11-character volume label: alphanumeric, '-', '_', 0xFF (deleted
// marker), space, '*', '.', or NUL (padding, silently dropped).
func validNameByte(b byte) bool {
	switch {
	case b >= '0' && b <= '9':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= 'a' && b <= 'z':
		return true
	}
	switch b {
	case '-', '_', 0xFF, ' ', '*', '.', 0:
		return true
	}
	return false
}

// DecodeName decodes an 11-byte on-disk name field into a display
// string. For filenames (withDot true) a '.' is inserted between the
// 8-byte name and 3-byte extension, and an empty extension (first
// extension byte 0, or all spaces/NULs) ends the name early with no
// dot; trailing space padding of the name or extension is dropped and
// embedded spaces are rejected. For an 11-character volume label
// (withDot false) no dot is inserted and embedded spaces are allowed.
// NUL bytes are dropped rather than copied. Any other disallowed byte
// is an error.
func DecodeName(raw []byte, withDot bool) (string, error) {
	if len(raw) != 11 {
		return "", fmt.Errorf("name field must be 11 bytes, got %d", len(raw))
	}
	var out []byte
	for j := 0; j < 11; j++ {
		b := raw[j]
		if !validNameByte(b) {
			return "", fmt.Errorf("invalid byte 0x%02x at name position %d", b, j)
		}
		if withDot && b == ' ' {
			end := 8
			if j >= 8 {
				end = 11
			}
			if len(bytes.TrimRight(raw[j:end], " \x00")) != 0 {
				return "", fmt.Errorf("embedded space at name position %d", j)
			}
		} else if b != 0 {
			out = append(out, b)
		}
		if j == 7 {
			if raw[8] == 0 || (withDot && len(bytes.TrimRight(raw[8:11], " \x00")) == 0) {
				break
			}
			if withDot {
				out = append(out, '.')
			}
		}
	}
	return string(out), nil
}

// EncodeName encodes a display name back into an 11-byte on-disk name
// field. For filenames, name is split on the first '.' into an 8-byte
// base and 3-byte extension; both are space-padded. For volume
// labels, the whole string is treated as the 11-character field,
// space-padded; a label longer than 11 characters is an error.
func EncodeName(name string, withDot bool) ([11]byte, error) {
	var out [11]byte
	for i := range out {
		out[i] = ' '
	}
	if !withDot {
		if len(name) > 11 {
			return out, fmt.Errorf("volume label %q longer than 11 characters", name)
		}
		for i := 0; i < len(name); i++ {
			if !validNameByte(name[i]) {
				return out, fmt.Errorf("invalid character %q in volume label", name[i])
			}
			out[i] = name[i]
		}
		return out, nil
	}

	base, ext := splitExt(name)
	if len(base) == 0 || len(base) > 8 {
		return out, fmt.Errorf("filename base %q must be 1-8 characters", base)
	}
	if len(ext) > 3 {
		return out, fmt.Errorf("filename extension %q must be 0-3 characters", ext)
	}
	for i := 0; i < len(base); i++ {
		if !validNameByte(base[i]) || base[i] == ' ' {
			return out, fmt.Errorf("invalid character %q in filename %q", base[i], name)
		}
		out[i] = base[i]
	}
	for i := 0; i < len(ext); i++ {
		if !validNameByte(ext[i]) || ext[i] == ' ' {
			return out, fmt.Errorf("invalid character %q in extension %q", ext[i], ext)
		}
		out[8+i] = ext[i]
	}
	return out, nil
}

// splitExt splits a filename on its first '.', if any.
func splitExt(name string) (base, ext string) {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name[:i], name[i+1:]
		}
	}
	return name, ""
}

// NormalizeFilename coerces an arbitrary host filename into a legal
// FLEX 8.3 name, following the same coercion rules as the original
// file-insertion tool: a name that doesn't start with a letter gets an
// 'x' prepended, illegal characters are replaced with '_', and the
// base/extension are truncated to 8/3 characters.
func NormalizeFilename(name string) string {
	base, ext := splitExt(name)
	if base == "" {
		base = "x"
	}
	if !((base[0] >= 'A' && base[0] <= 'Z') || (base[0] >= 'a' && base[0] <= 'z')) {
		base = "x" + base
	}
	base = sanitize(base, 8)
	ext = sanitize(ext, 3)
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// sanitize replaces disallowed bytes with '_' and truncates to maxLen.
func sanitize(s string, maxLen int) string {
	b := []byte(s)
	for i, c := range b {
		if !validNameByte(c) || c == ' ' || c == 0 || c == 0xFF || c == '.' {
			b[i] = '_'
		}
	}
	if len(b) > maxLen {
		b = b[:maxLen]
	}
	return string(b)
}

// Copyright 2015 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"encoding/base64"
)

// isUnreserved reports whether c may appear in a path segment without
// escaping.  These are the "unreserved" characters of RFC 3986 section
// 2.3, plus ":".
func isUnreserved(c rune) bool {
	switch {
	case c == '-', c == '.', c == '_', c == ':', c == '~':
		return true
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return false
}

// MaybeEncodeName examines a resource identifier, and if it cannot be
// directly inserted into a URL path as-is, base64 encodes it.  More
// specifically, the encoded name begins with - and uses the URL-safe
// base64 alphabet with no padding.
func MaybeEncodeName(name string) string {
	// Empty names and names starting with "-" are ambiguous.
	safe := len(name) > 0 && name[0] != '-'
	for _, c := range name {
		if !safe {
			break
		}
		safe = isUnreserved(c)
	}
	if safe {
		return name
	}
	return "-" + base64.RawURLEncoding.EncodeToString([]byte(name))
}

// MaybeDecodeName examines a path segment, and if it appears to be
// base64 encoded, decodes it.  base64 encoded strings begin with a -
// sign.  This function is the dual of MaybeEncodeName().  Returns an
// error if the string begins with - and the remainder of the string
// isn't actually base64 encoded.
func MaybeDecodeName(name string) (string, error) {
	if len(name) == 0 || name[0] != '-' {
		return name, nil
	}
	bytes, err := base64.RawURLEncoding.DecodeString(name[1:])
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

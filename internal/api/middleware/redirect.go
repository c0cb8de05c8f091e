package middleware

import "encoding/base64"

// EncodeRedirect encodes a path plus raw query as the opaque value of the
// login page's redirect parameter.
func EncodeRedirect(path, rawQuery string) string {
	full := path
	if rawQuery != "" {
		full += "?" + rawQuery
	}
	return base64.StdEncoding.EncodeToString([]byte(full))
}

// DecodeRedirect reverses EncodeRedirect. A malformed parameter fails soft:
// the second return is false and the caller falls back to its default
// destination, never an error page.
func DecodeRedirect(param string) (string, bool) {
	if param == "" {
		return "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(param)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}

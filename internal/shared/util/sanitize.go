package util

import (
	"path"
	"strings"
	"unicode"
)

const maxExtLen = 16

// HeaderFileName returns a version of a user-supplied file name that is safe to
// place inside a quoted MIME or HTTP header parameter. It keeps only the last
// path element and drops quotes, backslashes and control characters.
func HeaderFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." {
		return "document"
	}
	s := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == '"' {
			return -1
		}
		return r
	}, name)
	if strings.TrimSpace(s) == "" {
		return "document"
	}
	return s
}

// StorageExt derives a short, lower-case extension (with the leading dot) from a
// user-supplied file name. It returns "" when the name has no usable extension.
func StorageExt(name string) string {
	ext := strings.ToLower(path.Ext(HeaderFileName(name)))
	if len(ext) < 2 || len(ext) > maxExtLen {
		return ""
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') {
			return ""
		}
	}
	return ext
}

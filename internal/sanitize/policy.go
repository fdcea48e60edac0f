package sanitize

import (
	"github.com/vnykmshr/sendstream/internal/format"
)

// Policy decides, per command and per attribute, what the transform
// emits. Both functions must be deterministic for the duration of a
// run so repeated values rewrite identically.
type Policy struct {
	// ElideCommand reports whether a command is suppressed from the
	// output entirely. The terminal END command is never elided,
	// regardless of what this reports.
	ElideCommand func(format.CmdType) bool

	// RewriteValue returns the value bytes to emit for an attribute.
	// Returning the input slice passes the value through unchanged;
	// the transform never writes into it.
	RewriteValue func(format.AttrType, []byte) []byte
}

// Identity returns a policy that passes every command and attribute
// through unchanged. Checksums are still recomputed, so a well-formed
// input round-trips byte-exactly.
func Identity() Policy {
	return Policy{
		ElideCommand: func(format.CmdType) bool { return false },
		RewriteValue: func(_ format.AttrType, value []byte) []byte { return value },
	}
}

// Redact returns the standard redaction policy keyed by salt:
//
//   - path-bearing attributes: each component replaced by its keyed
//     hash digest ("." , ".." and empty components kept)
//   - file data, timestamps, uid and gid: zeroed, length preserved
//   - xattr commands: elided entirely rather than redacted
//   - everything else: passed through
func Redact(salt Salt) Policy {
	hasher := newPathHasher(salt)
	return Policy{
		ElideCommand: func(t format.CmdType) bool {
			return t == format.CmdSetXattr || t == format.CmdRemoveXattr
		},
		RewriteValue: func(t format.AttrType, value []byte) []byte {
			switch t {
			case format.AttrPath, format.AttrPathTo, format.AttrPathLink,
				format.AttrClonePath, format.AttrXattrName:
				return hasher.sanitizePath(value)
			case format.AttrData, format.AttrCtime, format.AttrMtime,
				format.AttrAtime, format.AttrOtime, format.AttrUID, format.AttrGID:
				return make([]byte, len(value))
			default:
				return value
			}
		},
	}
}

package format

import "strconv"

// CmdType identifies a command in the send stream. Codes above the
// known range are preserved as-is: the format is forward-extensible,
// so an unrecognized code is data to carry, not an error. Use Known to
// distinguish the two cases.
type CmdType uint16

// Command type codes.
const (
	CmdUnspec CmdType = iota
	CmdSubvol
	CmdSnapshot
	CmdMkfile
	CmdMkdir
	CmdMknod
	CmdMkfifo
	CmdMksock
	CmdSymlink
	CmdRename
	CmdLink
	CmdUnlink
	CmdRmdir
	CmdSetXattr
	CmdRemoveXattr
	CmdWrite
	CmdClone
	CmdTruncate
	CmdChmod
	CmdChown
	CmdUtimes
	CmdEnd
	CmdUpdateExtent
)

var cmdNames = map[CmdType]string{
	CmdUnspec:       "UNSPEC",
	CmdSubvol:       "SUBVOL",
	CmdSnapshot:     "SNAPSHOT",
	CmdMkfile:       "MKFILE",
	CmdMkdir:        "MKDIR",
	CmdMknod:        "MKNOD",
	CmdMkfifo:       "MKFIFO",
	CmdMksock:       "MKSOCK",
	CmdSymlink:      "SYMLINK",
	CmdRename:       "RENAME",
	CmdLink:         "LINK",
	CmdUnlink:       "UNLINK",
	CmdRmdir:        "RMDIR",
	CmdSetXattr:     "SET_XATTR",
	CmdRemoveXattr:  "REMOVE_XATTR",
	CmdWrite:        "WRITE",
	CmdClone:        "CLONE",
	CmdTruncate:     "TRUNCATE",
	CmdChmod:        "CHMOD",
	CmdChown:        "CHOWN",
	CmdUtimes:       "UTIMES",
	CmdEnd:          "END",
	CmdUpdateExtent: "UPDATE_EXTENT",
}

// Known reports whether the command type code is part of the known catalog.
func (t CmdType) Known() bool {
	_, ok := cmdNames[t]
	return ok
}

// String returns the symbolic name of the command type, or the numeric
// code for unknown types.
func (t CmdType) String() string {
	if name, ok := cmdNames[t]; ok {
		return name
	}
	return "UNKNOWN(" + strconv.Itoa(int(t)) + ")"
}

// AttrType identifies an attribute within a command payload. As with
// CmdType, unrecognized codes are carried through rather than rejected.
type AttrType uint16

// Attribute type codes.
const (
	AttrUnspec AttrType = iota
	AttrUUID
	AttrCtransid
	AttrIno
	AttrSize
	AttrMode
	AttrUID
	AttrGID
	AttrRdev
	AttrCtime
	AttrMtime
	AttrAtime
	AttrOtime
	AttrXattrName
	AttrXattrData
	AttrPath
	AttrPathTo
	AttrPathLink
	AttrFileOffset
	AttrData
	AttrCloneUUID
	AttrCloneCtransid
	AttrClonePath
	AttrCloneOffset
	AttrCloneLen
)

var attrNames = map[AttrType]string{
	AttrUnspec:        "UNSPEC",
	AttrUUID:          "UUID",
	AttrCtransid:      "CTRANSID",
	AttrIno:           "INO",
	AttrSize:          "SIZE",
	AttrMode:          "MODE",
	AttrUID:           "UID",
	AttrGID:           "GID",
	AttrRdev:          "RDEV",
	AttrCtime:         "CTIME",
	AttrMtime:         "MTIME",
	AttrAtime:         "ATIME",
	AttrOtime:         "OTIME",
	AttrXattrName:     "XATTR_NAME",
	AttrXattrData:     "XATTR_DATA",
	AttrPath:          "PATH",
	AttrPathTo:        "PATH_TO",
	AttrPathLink:      "PATH_LINK",
	AttrFileOffset:    "FILE_OFFSET",
	AttrData:          "DATA",
	AttrCloneUUID:     "CLONE_UUID",
	AttrCloneCtransid: "CLONE_CTRANSID",
	AttrClonePath:     "CLONE_PATH",
	AttrCloneOffset:   "CLONE_OFFSET",
	AttrCloneLen:      "CLONE_LEN",
}

// Known reports whether the attribute type code is part of the known catalog.
func (t AttrType) Known() bool {
	_, ok := attrNames[t]
	return ok
}

// String returns the symbolic name of the attribute type, or the
// numeric code for unknown types.
func (t AttrType) String() string {
	if name, ok := attrNames[t]; ok {
		return name
	}
	return "UNKNOWN(" + strconv.Itoa(int(t)) + ")"
}

// ValueClass describes how an attribute's value bytes decode. Only the
// printer and the sanitize policy consult it; re-encoding always works
// on raw bytes.
type ValueClass int

const (
	// ClassBytes is an opaque byte string (the default).
	ClassBytes ValueClass = iota
	// ClassUint is a little-endian unsigned integer, width = value length.
	ClassUint
	// ClassDevNum is a packed device number (major, minor).
	ClassDevNum
	// ClassTimestamp is 8-byte LE seconds + 4-byte LE nanoseconds.
	ClassTimestamp
	// ClassUUID is 16 raw bytes, displayed in standard UUID form.
	ClassUUID
	// ClassPath is a byte string treated as a path or name.
	ClassPath
)

// Class returns the value class for the attribute type. Unknown types
// are ClassBytes.
func (t AttrType) Class() ValueClass {
	switch t {
	case AttrCtransid, AttrIno, AttrSize, AttrMode, AttrUID, AttrGID,
		AttrFileOffset, AttrCloneCtransid, AttrCloneOffset, AttrCloneLen:
		return ClassUint
	case AttrRdev:
		return ClassDevNum
	case AttrCtime, AttrMtime, AttrAtime, AttrOtime:
		return ClassTimestamp
	case AttrUUID, AttrCloneUUID:
		return ClassUUID
	case AttrPath, AttrPathTo, AttrPathLink, AttrClonePath, AttrXattrName:
		return ClassPath
	default:
		return ClassBytes
	}
}

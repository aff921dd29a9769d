package object

// OID is a 64-character hex-encoded SHA-256 digest naming a stored object.
type OID string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// TreeEntry is one entry in a tree object: a named blob or subtree.
type TreeEntry struct {
	Type ObjectType
	OID  OID
	Name string
}

// Tree holds the direct children of one directory level.
type Tree struct {
	Entries []TreeEntry
}

// Commit records a tree snapshot, an optional parent, and a message.
// Parent is empty for the first commit in a chain.
type Commit struct {
	Tree    OID
	Parent  OID
	Message string
}

package object

import "fmt"

// Hash is a 40-character lowercase hex-encoded SHA-1 digest.
type Hash string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// Valid reports whether t is one of the kinds the object database stores.
func (t ObjectType) Valid() bool {
	switch t {
	case TypeBlob, TypeTree, TypeCommit:
		return true
	}
	return false
}

// FileMode is the ASCII mode string recorded in a tree entry.
type FileMode string

const (
	// Tree mode constants compatible with Git's canonical mode strings.
	ModeFile       FileMode = "100644"
	ModeExecutable FileMode = "100755"
	ModeSymlink    FileMode = "120000"
	ModeDir        FileMode = "40000"
	ModeGitlink    FileMode = "160000"
)

// ObjectType returns the kind of object an entry with this mode points at.
func (m FileMode) ObjectType() ObjectType {
	switch m {
	case ModeDir:
		return TypeTree
	case ModeGitlink:
		return TypeCommit
	default:
		return TypeBlob
	}
}

// Padded returns the mode zero-padded to six digits, as git prints it.
func (m FileMode) Padded() string {
	return fmt.Sprintf("%06s", string(m))
}

// TreeEntry is one entry in a tree object.
type TreeEntry struct {
	Mode FileMode
	Name string
	Hash Hash
}

// Signature is an author or committer line: "Name <email> when zone".
type Signature struct {
	Name  string
	Email string
	When  int64  // seconds since the Unix epoch
	Zone  string // e.g. "+0000"
}

func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.When, s.Zone)
}

// Commit represents a commit pointing to a tree with metadata.
type Commit struct {
	Tree      Hash
	Parents   []Hash
	Author    Signature
	Committer Signature
	GPGSig    string
	Message   string
}

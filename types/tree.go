package types

const (
	KindTree = "tree"
	KindBlob = "blob"
)

// A single entry of a git tree listing.
type TreeEntry struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

func (t TreeEntry) IsTree() bool {
	return t.Kind == KindTree
}

func (t TreeEntry) ShortID() string {
	return shortHash(t.ID)
}

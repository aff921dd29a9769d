package repo

import (
	"github.com/odvcencio/ugit/pkg/object"
)

// MetaDirName is the repository metadata directory created by Init and
// searched for by Open.
const MetaDirName = ".ugit"

// Repo represents an opened ugit repository.
type Repo struct {
	RootDir string        // working directory root
	UgitDir string        // .ugit/ directory
	Store   *object.Store // content-addressed object store
}

package store

import (
	"path/filepath"

	"src.sexp.sh/pkg/testutil"
)

// MustTempStore returns a Store backed by a temporary file, closed and
// removed when the test finishes. It panics if the Store cannot be created.
func MustTempStore(c testutil.Cleanuper) DBStore {
	st, err := NewStore(filepath.Join(testutil.TempDir(c), "db.bolt"))
	if err != nil {
		panic(err)
	}
	c.Cleanup(func() { st.Close() })
	return st
}

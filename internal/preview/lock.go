package preview

import (
	"path/filepath"

	"github.com/gofrs/flock"

	"rppreview/internal/services"
)

// LockFileName is created in the output directory while a run is active.
const LockFileName = ".rppreview.lock"

// OutputLock is an advisory lock held on an output directory for a run.
type OutputLock struct {
	path string
	lock *flock.Flock
}

// AcquireOutputLock takes the output directory lock without blocking. A
// second run against the same directory fails with ErrOutputLocked.
func AcquireOutputLock(outputDir string) (*OutputLock, error) {
	path := filepath.Join(outputDir, LockFileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrOutputLocked, "preview", "acquire lock", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrOutputLocked, "preview", "acquire lock", "another run is using "+outputDir, nil)
	}
	return &OutputLock{path: path, lock: lock}, nil
}

// Path returns the lock file location.
func (l *OutputLock) Path() string {
	return l.path
}

// Release unlocks the output directory. The lock file itself is left in
// place; removing it would race with a run acquiring it.
func (l *OutputLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Close()
}

// Package ports declares the interfaces the app layer depends on. Adapters
// under internal/adapters implement them.
package ports

// Watcher reports changes to a fixed set of files so searches can be re-run.
// Editors often replace a file on save (write to temp, rename over), so an
// adapter must watch the containing directory rather than the file inode.
type Watcher interface {
	// Watch starts monitoring paths. onChange is called with the absolute path
	// of a watched file once its burst of events has settled. The callback may
	// be invoked from any goroutine. Returns an error if a path's directory
	// cannot be watched.
	Watch(paths []string, onChange func(path string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}

/*
Package filesystem provides the filesystem abstraction used by vision-infra,
resilient stat/open helpers for NFS-mounted sources, and a directory watcher
for incoming inference inputs.

# FileSystem

[FileSystem] is a small interface over path queries, directory management
and whole-file reads and writes. [OS] implements it on the host filesystem.
Callers that need to substitute a fake use [SetDefault]:

	prev := filesystem.SetDefault(fake)
	defer filesystem.SetDefault(prev)

	if filesystem.Default().IsDirectory(src) {
	    // ...
	}

# Retry Behavior

[StatWithRetry], [OpenWithRetry] and [ReadFileWithRetry] retry NFS stale file
handle errors (ESTALE) with exponential backoff:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

All other errors fail immediately without retry attempts. [OS] uses these
helpers for its stat and read calls.

# Watching Sources

[Watcher] reports files created or rewritten in a directory once they have
been quiet for the debounce period, classified with the mediatypes package:

	w, err := filesystem.NewWatcher(filesystem.WithTypes(mediatypes.FileTypeImage))
	if err != nil {
	    return err
	}
	defer w.Close()

	if err := w.Add("/data/incoming"); err != nil {
	    return err
	}
	w.Start(ctx)
	for ev := range w.Events() {
	    // ev.Path, ev.Type
	}
*/
package filesystem

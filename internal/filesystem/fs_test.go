package filesystem

import (
	"os"
	"path/filepath"
	"reflect"
	"syscall"
	"testing"
	"time"
)

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", config.MaxRetries)
	}
	if config.InitialBackoff != 50*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 50ms", config.InitialBackoff)
	}
	if config.MaxBackoff != 500*time.Millisecond {
		t.Errorf("MaxBackoff = %v, want 500ms", config.MaxBackoff)
	}
}

func TestRetryBackoffCapped(t *testing.T) {
	config := RetryConfig{InitialBackoff: 50 * time.Millisecond, MaxBackoff: 150 * time.Millisecond}

	backoff := config.InitialBackoff
	var got []time.Duration
	for range 3 {
		backoff = config.next(backoff)
		got = append(got, backoff)
	}

	want := []time.Duration{100 * time.Millisecond, 150 * time.Millisecond, 150 * time.Millisecond}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("backoff sequence = %v, want %v", got, want)
	}
}

func TestIsNFSStaleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "ESTALE error", err: syscall.ESTALE, want: true},
		{name: "wrapped ESTALE", err: &os.PathError{Op: "stat", Path: "/nfs/x", Err: syscall.ESTALE}, want: true},
		{name: "ENOENT error", err: syscall.ENOENT, want: false},
		{name: "generic error", err: os.ErrNotExist, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNFSStaleError(tt.err); got != tt.want {
				t.Errorf("isNFSStaleError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithRetryRetriesOnlyStaleErrors(t *testing.T) {
	config := RetryConfig{MaxRetries: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}

	calls := 0
	err := withRetry("Stat", "/nfs/x", config, func() error {
		calls++
		if calls < 3 {
			return syscall.ESTALE
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("withRetry() = %v after %d calls, want nil after 3", err, calls)
	}

	calls = 0
	err = withRetry("Stat", "/nfs/x", config, func() error {
		calls++
		return syscall.ESTALE
	})
	if err != syscall.ESTALE || calls != config.MaxRetries+1 {
		t.Errorf("withRetry() = %v after %d calls, want ESTALE after %d", err, calls, config.MaxRetries+1)
	}

	calls = 0
	err = withRetry("Stat", "/nfs/x", config, func() error {
		calls++
		return os.ErrPermission
	})
	if err != os.ErrPermission || calls != 1 {
		t.Errorf("withRetry() = %v after %d calls, want ErrPermission after 1", err, calls)
	}
}

func TestStatAndOpenWithRetry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.jpg")
	if err := os.WriteFile(path, []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := StatWithRetry(path, DefaultRetryConfig())
	if err != nil || info.Size() != 4 {
		t.Errorf("StatWithRetry() = %v, %v; want size 4", info, err)
	}

	f, err := OpenWithRetry(path, DefaultRetryConfig())
	if err != nil {
		t.Fatalf("OpenWithRetry() error = %v", err)
	}
	f.Close()

	if _, err := StatWithRetry(path+".missing", DefaultRetryConfig()); !os.IsNotExist(err) {
		t.Errorf("StatWithRetry(missing) error = %v, want not-exist", err)
	}
	if _, err := OpenWithRetry(path+".missing", DefaultRetryConfig()); !os.IsNotExist(err) {
		t.Errorf("OpenWithRetry(missing) error = %v, want not-exist", err)
	}
}

func TestOSQueries(t *testing.T) {
	fs := NewOS()
	dir := t.TempDir()
	file := fs.JoinPath(dir, "labels.txt")

	if err := fs.WriteFile(file, []byte("person\ncar\n")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"Exists(file)", fs.Exists(file), true},
		{"Exists(dir)", fs.Exists(dir), true},
		{"Exists(missing)", fs.Exists(filepath.Join(dir, "nope")), false},
		{"IsFile(file)", fs.IsFile(file), true},
		{"IsFile(dir)", fs.IsFile(dir), false},
		{"IsDirectory(dir)", fs.IsDirectory(dir), true},
		{"IsDirectory(file)", fs.IsDirectory(file), false},
		{"IsDirectory(missing)", fs.IsDirectory(filepath.Join(dir, "nope")), false},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if got := fs.FileSize(file); got != 11 {
		t.Errorf("FileSize() = %d, want 11", got)
	}
	if got := fs.FileSize(filepath.Join(dir, "nope")); got != -1 {
		t.Errorf("FileSize(missing) = %d, want -1", got)
	}

	data, ok := fs.ReadFile(file)
	if !ok || string(data) != "person\ncar\n" {
		t.Errorf("ReadFile() = %q, %v", data, ok)
	}
	if _, ok := fs.ReadFile(filepath.Join(dir, "nope")); ok {
		t.Error("ReadFile(missing) should report false")
	}
}

func TestOSDirectories(t *testing.T) {
	fs := NewOS()
	root := t.TempDir()

	nested := filepath.Join(root, "a", "b", "c")
	if err := fs.CreateDirectory(nested); err == nil {
		t.Error("CreateDirectory should fail when parents are missing")
	}
	if err := fs.CreateDirectories(nested); err != nil {
		t.Fatalf("CreateDirectories: %v", err)
	}
	if err := fs.CreateDirectory(filepath.Join(root, "z")); err != nil {
		t.Fatalf("CreateDirectory: %v", err)
	}
	for _, name := range []string{"b.png", "a.onnx"} {
		if err := fs.WriteFile(filepath.Join(root, name), nil); err != nil {
			t.Fatal(err)
		}
	}

	if got, want := fs.ListFiles(root), []string{"a.onnx", "b.png"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListFiles() = %v, want %v", got, want)
	}
	if got, want := fs.ListDirectories(root), []string{"a", "z"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListDirectories() = %v, want %v", got, want)
	}
	if got := fs.ListFiles(filepath.Join(root, "missing")); len(got) != 0 {
		t.Errorf("ListFiles(missing) = %v, want empty", got)
	}

	if err := fs.Remove(filepath.Join(root, "a")); err == nil {
		t.Error("Remove should fail on a non-empty directory")
	}
	if err := fs.RemoveAll(filepath.Join(root, "a")); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if err := fs.Remove(filepath.Join(root, "b.png")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got, want := fs.ListDirectories(root), []string{"z"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListDirectories() after removal = %v, want %v", got, want)
	}
}

func TestOSPathHelpers(t *testing.T) {
	fs := NewOS()

	if ext, ok := fs.Extension("/models/yolo.onnx"); !ok || ext != ".onnx" {
		t.Errorf("Extension() = %q, %v; want .onnx, true", ext, ok)
	}
	if _, ok := fs.Extension("/models/Makefile"); ok {
		t.Error("Extension() should report false without an extension")
	}
	if got := fs.FileName("/models/yolo.onnx"); got != "yolo.onnx" {
		t.Errorf("FileName() = %q", got)
	}
	if got := fs.DirectoryName("/models/yolo.onnx"); got != "/models" {
		t.Errorf("DirectoryName() = %q", got)
	}
	if got := fs.JoinPath("a", "b", "c.png"); got != filepath.Join("a", "b", "c.png") {
		t.Errorf("JoinPath() = %q", got)
	}
	if got := fs.AbsolutePath("rel"); !filepath.IsAbs(got) {
		t.Errorf("AbsolutePath(rel) = %q, want absolute", got)
	}
	wd, _ := os.Getwd()
	if got := fs.WorkingDirectory(); got != wd {
		t.Errorf("WorkingDirectory() = %q, want %q", got, wd)
	}
}

type fakeFS struct{ *OS }

func TestSetDefault(t *testing.T) {
	fake := fakeFS{NewOS()}
	prev := SetDefault(fake)
	defer SetDefault(prev)

	if _, ok := Default().(fakeFS); !ok {
		t.Error("Default() should return the installed filesystem")
	}

	SetDefault(nil)
	if _, ok := Default().(*OS); !ok {
		t.Error("SetDefault(nil) should restore the host filesystem")
	}
}

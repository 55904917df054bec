package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestManagerLoggerIdentity(t *testing.T) {
	m := NewManager()

	a := m.Logger("camera")
	b := m.Logger("camera")
	c := m.Logger("decoder")

	if a != b {
		t.Error("same name should return the same instance")
	}
	if a == c {
		t.Error("different names should return different instances")
	}
	if a.Name() != "camera" {
		t.Errorf("Name() = %q, want %q", a.Name(), "camera")
	}
}

func TestManagerDefaultAliases(t *testing.T) {
	m := NewManager()

	if m.Logger("") != m.Logger("default") {
		t.Error(`"" and "default" should resolve to the same logger`)
	}
	if m.Default() != m.Logger("") {
		t.Error("Default() should match Logger(\"\")")
	}
	if len(m.Names()) != 0 {
		t.Errorf("default logger should not be registered by name, got %v", m.Names())
	}
}

func TestManagerSetGlobalLevel(t *testing.T) {
	m := NewManager()
	before := []*Logger{m.Logger("a"), m.Logger("b"), m.Default()}

	m.SetGlobalLevel(LevelError)

	for _, l := range before {
		if l.Level() != LevelError {
			t.Errorf("logger %q level = %v, want ERROR", l.Name(), l.Level())
		}
	}

	after := m.Logger("c")
	if after.Level() != LevelError {
		t.Errorf("new logger level = %v, want the global level ERROR", after.Level())
	}
	if m.GlobalLevel() != LevelError {
		t.Errorf("GlobalLevel() = %v, want ERROR", m.GlobalLevel())
	}
}

func TestManagerNewLoggerUsesGlobalLevelAtCreation(t *testing.T) {
	m := NewManager()
	m.SetGlobalLevel(LevelDebug)
	l := m.Logger("early")

	l.SetLevel(LevelWarn)
	if m.Logger("early").Level() != LevelWarn {
		t.Error("per-logger level changes should stick until the next broadcast")
	}
}

func TestManagerSetDefault(t *testing.T) {
	m := NewManager()
	old := m.Default()
	replacement := NewLogger("replacement")

	m.SetDefault(replacement)

	if m.Logger("default") != replacement {
		t.Error("default should resolve to the replacement")
	}
	if old.Name() != "default" {
		t.Error("handles obtained earlier should be unaffected")
	}

	m.SetDefault(nil)
	if m.Default() != replacement {
		t.Error("SetDefault(nil) should be ignored")
	}

	m.SetGlobalLevel(LevelTrace)
	if replacement.Level() != LevelTrace {
		t.Error("global level should apply to the replacement default")
	}
	if old.Level() == LevelTrace {
		t.Error("global level should not apply to the detached previous default")
	}
}

func TestManagerConcurrentLookup(t *testing.T) {
	m := NewManager()

	const n = 32
	results := make([]*Logger, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = m.Logger("shared")
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent lookups returned different instances")
		}
	}
}

func TestManagerNames(t *testing.T) {
	m := NewManager()
	m.Logger("zeta")
	m.Logger("alpha")
	m.Logger("")

	got := strings.Join(m.Names(), ",")
	if got != "alpha,zeta" {
		t.Errorf("Names() = %q, want %q", got, "alpha,zeta")
	}
}

func TestManagerOptionsApplyToCreatedLoggers(t *testing.T) {
	var stdout, stderr bytes.Buffer
	m := NewManager(WithConsole(&stdout, &stderr), WithPattern("{name}:{message}"))

	m.Logger("svc").Info("up")
	m.Default().Error("down")

	if stdout.String() != "svc:up\n" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "svc:up\n")
	}
	if stderr.String() != "default:down\n" {
		t.Errorf("stderr = %q, want %q", stderr.String(), "default:down\n")
	}
}

func TestSetDefaultManager(t *testing.T) {
	var stdout, stderr bytes.Buffer
	m := NewManager(WithConsole(&stdout, &stderr), WithPattern("{level} {message}"))

	prev := SetDefaultManager(m)
	defer SetDefaultManager(prev)

	if DefaultManager() != m {
		t.Fatal("DefaultManager() should return the installed manager")
	}
	if GetLogger("x") != m.Logger("x") {
		t.Error("GetLogger should delegate to the installed manager")
	}

	SetGlobalLevel(LevelWarn)
	if GetLevel() != LevelWarn {
		t.Errorf("GetLevel() = %v, want WARN", GetLevel())
	}

	Info("dropped %d", 1)
	Warn("kept %d", 2)
	if stdout.String() != "WARN kept 2\n" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "WARN kept 2\n")
	}

	replacement := NewLogger("other", WithConsole(&stdout, &stderr))
	SetDefaultLogger(replacement)
	if m.Default() != replacement {
		t.Error("SetDefaultLogger should replace the installed manager's default")
	}
}

func TestManagerSetOutputFileAppliesToLaterLoggers(t *testing.T) {
	var stdout, stderr bytes.Buffer
	m := NewManager(WithConsole(&stdout, &stderr), WithPattern("{name}:{message}"))
	early := m.Logger("early")

	path := filepath.Join(t.TempDir(), "run.log")
	if !m.SetOutputFile(path) {
		t.Fatal("SetOutputFile() = false, want true")
	}
	if m.OutputFile() != path {
		t.Errorf("OutputFile() = %q, want %q", m.OutputFile(), path)
	}

	late := m.Logger("late")
	if late.OutputFile() != path {
		t.Errorf("late logger file = %q, want %q", late.OutputFile(), path)
	}

	m.Default().Info("from default")
	early.Info("from early")
	late.Warn("from late")
	m.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for _, want := range []string{"default:from default", "early:from early", "late:from late"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log file = %q, missing %q", string(data), want)
		}
	}
}

func TestManagerSetOutputFileUnopenable(t *testing.T) {
	m := NewManager(WithConsole(&bytes.Buffer{}, &bytes.Buffer{}))

	if m.SetOutputFile(filepath.Join(t.TempDir(), "missing", "run.log")) {
		t.Error("SetOutputFile() = true for a path in a missing directory")
	}
	if m.OutputFile() != "" {
		t.Errorf("OutputFile() = %q, want empty", m.OutputFile())
	}
	if m.Logger("after").OutputFile() != "" {
		t.Error("loggers created after a failed SetOutputFile should not have a file")
	}
}

func TestSetDefaultManagerNil(t *testing.T) {
	prev := SetDefaultManager(nil)
	defer SetDefaultManager(prev)

	if DefaultManager() == nil {
		t.Fatal("DefaultManager() = nil after SetDefaultManager(nil)")
	}
	SetGlobalLevel(LevelError)
	Info("must not panic")
}

package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestResolveLogFilePathDefaultDir(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	got, err := logFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve default log path failed: %v", err)
	}
	if filepath.Base(got) != defaultFilename {
		t.Fatalf("unexpected log filename: %s", filepath.Base(got))
	}
	if filepath.Base(filepath.Dir(got)) != defaultDir {
		t.Fatalf("unexpected log dir: %s", filepath.Dir(got))
	}
	if _, err := os.Stat(got); err != nil {
		t.Fatalf("expected log file to be created: %v", err)
	}
}

func TestNewReleaseWritesJSONToFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Dir: tmpDir, Filename: "release.log"})
	log.Sugar().Infow("post_published", "post_id", 7)
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "release.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, `"event":"post_published"`) {
		t.Fatalf("expected json event field, got=%s", text)
	}
	if !strings.Contains(text, `"service":"newsroom"`) {
		t.Fatalf("expected service field, got=%s", text)
	}
	if !strings.Contains(text, `"post_id":7`) {
		t.Fatalf("expected structured field, got=%s", text)
	}
}

func TestNewDebugDoesNotWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("debug", Options{Dir: tmpDir, Filename: "debug.log"})
	log.Info("debug-log-test")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestResolveLevel(t *testing.T) {
	cases := []struct {
		raw   string
		debug bool
		want  zap.AtomicLevel
	}{
		{raw: "", debug: true, want: zap.NewAtomicLevelAt(zap.DebugLevel)},
		{raw: "", debug: false, want: zap.NewAtomicLevelAt(zap.InfoLevel)},
		{raw: "WARN", debug: true, want: zap.NewAtomicLevelAt(zap.WarnLevel)},
		{raw: "bogus", debug: false, want: zap.NewAtomicLevelAt(zap.InfoLevel)},
	}
	for _, tc := range cases {
		got := resolveLevel(tc.raw, tc.debug)
		if got.Level() != tc.want.Level() {
			t.Fatalf("resolveLevel(%q,%v) want %v got %v", tc.raw, tc.debug, tc.want.Level(), got.Level())
		}
	}
}

func TestNewFallsBackToStdoutWhenDirUnusable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker failed: %v", err)
	}
	log := New("release", Options{Dir: blocker})
	if log == nil {
		t.Fatalf("logger should fall back to stdout")
	}
	if _, err := logFilePath(Options{Dir: blocker}); err == nil {
		t.Fatalf("file path under a regular file should fail")
	}
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReporter(t *testing.T) {
	t.Run("NewReporter", func(t *testing.T) {
		r := NewReporter(false)
		if r == nil {
			t.Fatal("NewReporter returned nil")
		}
		if r.quiet {
			t.Error("quiet should be false")
		}

		r = NewReporter(true)
		if !r.quiet {
			t.Error("quiet should be true")
		}
	})

	t.Run("SetStatus", func(t *testing.T) {
		r := NewReporter(false)
		r.SetStatus("test status")
		if r.status != "test status" {
			t.Errorf("expected 'test status', got %q", r.status)
		}
	})

	t.Run("SetProgress", func(t *testing.T) {
		r := NewReporter(false)
		r.SetProgress(0.5, "50%")
		if r.progress != 0.5 {
			t.Errorf("expected progress 0.5, got %f", r.progress)
		}
		if r.info != "50%" {
			t.Errorf("expected info '50%%', got %q", r.info)
		}
	})

	t.Run("Cancel", func(t *testing.T) {
		r := NewReporter(false)
		if r.IsCancelled() {
			t.Error("should not be cancelled initially")
		}
		r.Cancel()
		if !r.IsCancelled() {
			t.Error("should be cancelled after Cancel()")
		}
	})

	t.Run("SetCanCancel", func(t *testing.T) {
		r := NewReporter(false)
		// Should be a no-op, just ensure it doesn't panic
		r.SetCanCancel(true)
		r.SetCanCancel(false)
	})
}

func TestReporterOutput(t *testing.T) {
	t.Run("PrintSuccess respects quiet", func(t *testing.T) {
		r := NewReporter(true)

		old := os.Stderr
		rp, w, _ := os.Pipe()
		os.Stderr = w

		r.PrintSuccess("success message")

		w.Close()
		os.Stderr = old

		var buf bytes.Buffer
		buf.ReadFrom(rp)

		if buf.Len() != 0 {
			t.Errorf("quiet mode should suppress success, got: %q", buf.String())
		}
	})

	t.Run("PrintError always outputs", func(t *testing.T) {
		r := NewReporter(true) // Even in quiet mode

		old := os.Stderr
		rp, w, _ := os.Pipe()
		os.Stderr = w

		r.PrintError("error message")

		w.Close()
		os.Stderr = old

		var buf bytes.Buffer
		buf.ReadFrom(rp)

		if !strings.Contains(buf.String(), "error message") {
			t.Errorf("PrintError should always output, got: %q", buf.String())
		}
	})
}

func TestRunGenerateValidation(t *testing.T) {
	t.Run("rejects wrong rate count", func(t *testing.T) {
		genInput = t.TempDir()
		genSidecar = filepath.Join(t.TempDir(), "out.sidecar")
		genRates = []float64{0.5, 0.2}
		genHasherName = "sha256"
		genMaxBlockSize = 255

		err := runGenerate(generateCmd, nil)
		if err == nil || !strings.Contains(err.Error(), "rates") {
			t.Errorf("err = %v, want an error mentioning rates", err)
		}
		genRates = []float64{0.5, 0.2, 0.1}
	})

	t.Run("rejects unknown hasher", func(t *testing.T) {
		genInput = t.TempDir()
		genSidecar = filepath.Join(t.TempDir(), "out.sidecar")
		genRates = []float64{0.5, 0.2, 0.1}
		genHasherName = "md5"
		genMaxBlockSize = 255

		err := runGenerate(generateCmd, nil)
		if err == nil {
			t.Error("expected error for unknown hasher")
		}
		genHasherName = "sha256"
	})

	t.Run("rejects nonexistent input directory", func(t *testing.T) {
		genInput = filepath.Join(t.TempDir(), "does-not-exist")
		genSidecar = filepath.Join(t.TempDir(), "out.sidecar")
		genIndex = ""
		genRates = []float64{0.5, 0.2, 0.1}
		genHasherName = "sha256"
		genMaxBlockSize = 255

		err := runGenerate(generateCmd, nil)
		if err == nil {
			t.Error("expected error for nonexistent input directory")
		}
	})
}

func TestRunCheckValidation(t *testing.T) {
	t.Run("rejects wrong rate count", func(t *testing.T) {
		chkInput = t.TempDir()
		chkSidecar = filepath.Join(t.TempDir(), "missing.sidecar")
		chkOutput = t.TempDir()
		chkRates = []float64{0.1}
		chkHasherName = "sha256"
		chkMaxBlockSize = 255

		err := runCheck(checkCmd, nil)
		if err == nil || !strings.Contains(err.Error(), "rates") {
			t.Errorf("err = %v, want an error mentioning rates", err)
		}
		chkRates = []float64{0.5, 0.2, 0.1}
	})

	t.Run("rejects missing sidecar file", func(t *testing.T) {
		chkInput = t.TempDir()
		chkSidecar = filepath.Join(t.TempDir(), "missing.sidecar")
		chkOutput = t.TempDir()
		chkRates = []float64{0.5, 0.2, 0.1}
		chkHasherName = "sha256"
		chkMaxBlockSize = 255

		err := runCheck(checkCmd, nil)
		if err == nil {
			t.Error("expected error for missing sidecar file")
		}
	})
}

func TestRunRepairSidecarValidation(t *testing.T) {
	t.Run("rejects nonexistent input", func(t *testing.T) {
		rsPrimary = filepath.Join(t.TempDir(), "does-not-exist.sidecar")
		rsOutput = filepath.Join(t.TempDir(), "out.sidecar")
		rsIndex = ""
		rsThreshold = 0.3

		err := runRepairSidecar(repairSidecarCmd, nil)
		if err == nil {
			t.Error("expected error for nonexistent primary sidecar")
		}
	})

	t.Run("copies and repairs an undamaged sidecar as a no-op", func(t *testing.T) {
		dir := t.TempDir()
		rsPrimary = filepath.Join(dir, "in.sidecar")
		if err := os.WriteFile(rsPrimary, []byte("# header\nno markers here"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		rsOutput = filepath.Join(dir, "out.sidecar")
		rsIndex = ""
		rsThreshold = 0.3

		if err := runRepairSidecar(repairSidecarCmd, nil); err != nil {
			t.Fatalf("runRepairSidecar: %v", err)
		}
		if _, err := os.Stat(rsOutput); err != nil {
			t.Errorf("expected output file to be written: %v", err)
		}
	})
}

func TestDescribeIndex(t *testing.T) {
	if got := describeIndex(""); got != "no index supplied" {
		t.Errorf("describeIndex(\"\") = %q", got)
	}
	if got := describeIndex("/tmp/foo.idx"); got != "/tmp/foo.idx" {
		t.Errorf("describeIndex(path) = %q, want the path echoed back", got)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	if err := os.WriteFile(src, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := copyFile(src, dst); err != nil {
		t.Fatalf("copyFile: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("copyFile contents = %q, want %q", got, "hello")
	}
}

func TestRunDetectParamsValidation(t *testing.T) {
	t.Run("rejects codeword shorter than sample", func(t *testing.T) {
		dir := t.TempDir()
		dpSample = filepath.Join(dir, "sample")
		dpCodeword = filepath.Join(dir, "codeword")
		if err := os.WriteFile(dpSample, []byte("hello world"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if err := os.WriteFile(dpCodeword, []byte("short"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		dpGenerators = []int{2, 3, 5}

		err := runDetectParams(detectParamsCmd, nil)
		if err == nil || !strings.Contains(err.Error(), "longer") {
			t.Errorf("err = %v, want an error mentioning codeword length", err)
		}
	})

	t.Run("rejects missing sample file", func(t *testing.T) {
		dir := t.TempDir()
		dpSample = filepath.Join(dir, "does-not-exist")
		dpCodeword = filepath.Join(dir, "codeword")
		if err := os.WriteFile(dpCodeword, []byte("0123456789"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}

		err := runDetectParams(detectParamsCmd, nil)
		if err == nil {
			t.Error("expected error for missing sample file")
		}
	})
}

package scheduler

import (
	"os"
	"path/filepath"
	"testing"
)

func TestShellQuote(t *testing.T) {
	cases := map[string]string{
		"":                       "",
		"keras":                  "keras",
		"/home/user/model.py":    "/home/user/model.py",
		"00:05:00":               "00:05:00",
		"--ntasks=4 --nodes=2":   `"--ntasks=4 --nodes=2"`,
		`say "hi"`:               `"say \"hi\""`,
		"$HOME/lib":              `"$HOME/lib"`,
		"a`b`":                   "\"a\\`b\\`\"",
		`C:\path with space`:     `"C:\\path with space"`,
		"tensorflow/2.4,cuda/11": "tensorflow/2.4,cuda/11",
	}
	for in, want := range cases {
		if got := shellQuote(in); got != want {
			t.Errorf("shellQuote(%q) = %s; want %s", in, got, want)
		}
	}
}

func TestWriteExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candle_generated_files", "preprocessed_vars_to_export.sh")
	exports := []Export{
		{Name: "PROCS", Value: "6"},
		{Name: "TURBINE_SBATCH_ARGS", Value: "--mem-per-cpu=7G --nodes=1"},
		{Name: "CANDLE_SUPP_MODULES", Value: ""},
	}

	if err := WriteExportFile(path, exports); err != nil {
		t.Fatalf("WriteExportFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "export PROCS=6\nexport TURBINE_SBATCH_ARGS=\"--mem-per-cpu=7G --nodes=1\"\nexport CANDLE_SUPP_MODULES=\n"
	if string(data) != want {
		t.Errorf("file contents =\n%s\nwant\n%s", data, want)
	}

	// Rewriting truncates the previous contents.
	if err := WriteExportFile(path, exports[:1]); err != nil {
		t.Fatalf("WriteExportFile (rewrite): %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "export PROCS=6\n" {
		t.Errorf("rewrite contents = %q", data)
	}
}

func TestWriteExportFileError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	err := WriteExportFile(filepath.Join(blocker, "sub", "out.sh"), nil)
	if err == nil {
		t.Fatal("expected error when parent is a regular file")
	}
	if !IsExportWriteError(err) {
		t.Errorf("error %v is not an ExportWriteError", err)
	}
}

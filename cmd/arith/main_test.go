package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func TestRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "doc.yaml")
	if err := os.WriteFile(yamlPath, []byte("total: \"${(5 + 2) * 2}\"\nnote: keep\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	brokenPath := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(brokenPath, []byte(`{"total": "${1 +}"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, tt := range []struct {
		name       string
		args       []string
		code       int
		stdout     any
		stderrHead string
	}{
		{
			name:   "single expression",
			args:   []string{"-e", "10 + 20 + 5 * 2 + -10"},
			stdout: 30.0,
		},
		{
			name:   "multiple expressions keep order",
			args:   []string{"-e", "5*2+1", "-e", "10-3-2", "-e", "2+-3"},
			stdout: []any{11.0, 5.0, -1.0},
		},
		{
			name: "tree",
			args: []string{"--tree", "-e", "2 + -3"},
			stdout: map[string]any{
				"expression": "2 + -3",
				"tree":       "(+ 2 (- 3))",
				"value":      -1.0,
			},
		},
		{
			name:   "document",
			args:   []string{"-f", yamlPath},
			stdout: map[string]any{"total": 14.0, "note": "keep"},
		},
		{
			name:   "leading unary minus",
			args:   []string{"-e", "-5"},
			stdout: -5.0,
		},
		{
			name:   "leading unary minus on parenthesis",
			args:   []string{"-e", "-(1+2)", "--expr", "-4 * 2"},
			stdout: []any{-3.0, -8.0},
		},
		{
			name:   "positional expressions",
			args:   []string{"1 + 1", "--", "-5", "2*3"},
			stdout: []any{2.0, -5.0, 6.0},
		},
		{
			name:   "document with debug output",
			args:   []string{"--debug", "-f", yamlPath},
			stdout: map[string]any{"total": 14.0, "note": "keep"},
		},
		{
			name: "tree in document mode",
			args: []string{"--tree", "-f", yamlPath},
			code: 1,
		},
		{
			name:       "parse error",
			args:       []string{"-e", "1", "-e", "(1 + 2"},
			code:       1,
			stderrHead: "failed to evaluate: expr[1]: expr=\"(1 + 2\": UnmatchedParen:",
		},
		{
			name:       "document parse error",
			args:       []string{"-f", brokenPath},
			code:       1,
			stderrHead: "failed to load document: document.Parse: key=\"total\": expr=\"1 +\": UnexpectedToken:",
		},
		{
			name: "no mode",
			args: []string{},
			code: 1,
		},
		{
			name: "conflicting modes",
			args: []string{"-e", "1", "-f", yamlPath},
			code: 1,
		},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)
			if code != tt.code {
				t.Fatalf("expect exit code %d but got %d: stdout=%s stderr=%s", tt.code, code, stdout.String(), stderr.String())
			}

			if tt.stdout != nil {
				var got any
				if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
					t.Fatalf("invalid JSON output %q: %v", stdout.String(), err)
				}
				if diff := cmp.Diff(tt.stdout, got); diff != "" {
					t.Errorf("unexpected output (-want +got):\n%s", diff)
				}
			}
			if tt.stderrHead != "" && !strings.HasPrefix(stderr.String(), tt.stderrHead) {
				t.Errorf("expect stderr to start with %q but got %q", tt.stderrHead, stderr.String())
			}
		})
	}
}

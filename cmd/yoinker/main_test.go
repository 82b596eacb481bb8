package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pevans/yoinker"
	"github.com/pevans/yoinker/diagnostics"
	"github.com/pevans/yoinker/passage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource answers lookups from a map keyed by reference string.
type stubSource struct {
	texts map[string]string
	errs  map[string]error
	calls []string
}

func (s *stubSource) Yoink(ctx context.Context, method yoinker.Method, ref passage.Reference, sel passage.Selector) (string, error) {
	key := ref.Book + " " + ref.Chapter
	s.calls = append(s.calls, method.String()+" "+key+" "+sel.String())
	if err, ok := s.errs[key]; ok {
		return "", err
	}
	return s.texts[key], nil
}

// Test helper: a session around a stub source with captured output
func setupTestSession(t *testing.T, source *stubSource) (*session, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &session{
		ctx:     context.Background(),
		source:  source,
		stdout:  &stdout,
		stderr:  &stderr,
		dumpDir: filepath.Join(t.TempDir(), "dumps"),
	}, &stdout, &stderr
}

// TestParseBatchLine verifies the batch line grammar
func TestParseBatchLine(t *testing.T) {
	tests := []struct {
		line        string
		wantMethod  yoinker.Method
		wantBook    string
		wantChapter string
		wantVerses  string
	}{
		{"BG NIV Genesis 1 1,2,3", yoinker.MethodBG, "Genesis", "1", "1,2,3"},
		{"GPT KJV Psalm 23", yoinker.MethodGPT, "Psalm", "23", ""},
		{"bg ESV 1 John 3", yoinker.MethodBG, "1 John", "3", ""},
		{"BG ESV 1 John 3 16-18", yoinker.MethodBG, "1 John", "3", "16-18"},
		{"BG NIV Song of Songs 2 1-3,7", yoinker.MethodBG, "Song of Songs", "2", "1-3,7"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			req, err := parseBatchLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMethod, req.method)
			assert.Equal(t, tt.wantBook, req.ref.Book)
			assert.Equal(t, tt.wantChapter, req.ref.Chapter)
			assert.Equal(t, tt.wantVerses, req.sel.String())
		})
	}
}

// TestParseBatchLine_Errors verifies malformed lines are rejected
func TestParseBatchLine_Errors(t *testing.T) {
	for _, line := range []string{
		"BG NIV Genesis",
		"XX NIV Genesis 1",
		"BG NIV Genesis one",
		"BG NIV Genesis 1 5-2",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := parseBatchLine(line)
			assert.Error(t, err)
		})
	}
}

// TestOutputFileName verifies the output naming convention
func TestOutputFileName(t *testing.T) {
	tests := []struct {
		name   string
		method yoinker.Method
		ref    passage.Reference
		sel    string
		want   string
	}{
		{
			name:   "verses",
			method: yoinker.MethodBG,
			ref:    passage.Reference{Version: "NIV", Book: "Genesis", Chapter: "1"},
			sel:    "1,2,5-7",
			want:   "BG_NIV_Genesis_1_1,2,5-7.txt",
		},
		{
			name:   "whole chapter",
			method: yoinker.MethodGPT,
			ref:    passage.Reference{Version: "KJV", Book: "Psalm", Chapter: "23"},
			want:   "GPT_KJV_Psalm_23_All.txt",
		},
		{
			name:   "spaces and slashes",
			method: yoinker.MethodBG,
			ref:    passage.Reference{Version: "NIV/ESV", Book: "1 John", Chapter: "3"},
			sel:    "16",
			want:   "BG_NIV-ESV_1_John_3_16.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputFileName(tt.method, tt.ref, passage.MustParseSelector(tt.sel)))
		})
	}
}

// TestFetchCmd_Stdout verifies a single lookup is printed
func TestFetchCmd_Stdout(t *testing.T) {
	source := &stubSource{texts: map[string]string{"John 3": "For God so loved the world"}}
	rt, stdout, _ := setupTestSession(t, source)

	cmd := &FetchCmd{Method: "bg", Version: "NIV", Book: "John", Chapter: "3", Verses: "16"}
	require.NoError(t, cmd.Run(rt))

	assert.Equal(t, "For God so loved the world\n", stdout.String())
	assert.Equal(t, []string{"BG John 3 16"}, source.calls)
}

// TestFetchCmd_OutDir verifies passages are written to named files
func TestFetchCmd_OutDir(t *testing.T) {
	source := &stubSource{texts: map[string]string{"John 3": "For God so loved the world"}}
	rt, _, _ := setupTestSession(t, source)
	outDir := filepath.Join(t.TempDir(), "out")

	cmd := &FetchCmd{Method: "GPT", Version: "NIV", Book: "John", Chapter: "3", Out: outDir}
	require.NoError(t, cmd.Run(rt))

	data, err := os.ReadFile(filepath.Join(outDir, "GPT_NIV_John_3_All.txt"))
	require.NoError(t, err)
	assert.Equal(t, "For God so loved the world\n", string(data))
}

// TestFetchCmd_InvalidInput verifies nothing is looked up for bad input
func TestFetchCmd_InvalidInput(t *testing.T) {
	source := &stubSource{}
	rt, _, _ := setupTestSession(t, source)

	assert.Error(t, (&FetchCmd{Method: "BG", Version: "NIV", Book: "John", Chapter: "3", Verses: "a-b"}).Run(rt))
	assert.Error(t, (&FetchCmd{Method: "ESV", Version: "NIV", Book: "John", Chapter: "3"}).Run(rt))
	assert.ErrorIs(t, (&FetchCmd{Method: "BG", Version: "NIV", Book: "John", Chapter: "3", Verses: "1-9223372036854775807"}).Run(rt), passage.ErrInvalidSelector)
	assert.Empty(t, source.calls)
}

// TestFetchCmd_ContentNotFoundDump verifies the page markup is dumped
func TestFetchCmd_ContentNotFoundDump(t *testing.T) {
	markup := "<html><body>No results</body></html>"
	source := &stubSource{errs: map[string]error{
		"Hezekiah 1": &passage.ContentNotFoundError{Selector: "div", Markup: markup},
	}}
	rt, _, _ := setupTestSession(t, source)

	err := (&FetchCmd{Method: "BG", Version: "NIV", Book: "Hezekiah", Chapter: "1"}).Run(rt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page markup saved to")

	var notFound *passage.ContentNotFoundError
	assert.True(t, errors.As(err, &notFound))

	matches, err := filepath.Glob(filepath.Join(rt.dumpDir, "*"+diagnostics.Extension))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	got, err := diagnostics.Load(matches[0])
	require.NoError(t, err)
	assert.Equal(t, markup, got)
}

// TestBatchCmd_ContinuesPastFailures verifies every line is attempted
func TestBatchCmd_ContinuesPastFailures(t *testing.T) {
	source := &stubSource{
		texts: map[string]string{
			"Genesis 1": "In the beginning",
			"Psalm 23":  "The Lord is my shepherd",
		},
		errs: map[string]error{"Mark 99": errors.New("passage content not found")},
	}
	rt, stdout, stderr := setupTestSession(t, source)

	batchFile := filepath.Join(t.TempDir(), "passages.txt")
	content := strings.Join([]string{
		"# morning readings",
		"BG NIV Genesis 1 1",
		"",
		"XX NIV Exodus 1",
		"BG NIV Mark 99",
		"GPT KJV Psalm 23",
	}, "\n")
	require.NoError(t, os.WriteFile(batchFile, []byte(content), 0o644))

	err := (&BatchCmd{File: batchFile}).Run(rt)
	assert.EqualError(t, err, "2 of 4 lookups failed")

	assert.Equal(t, "In the beginning\nThe Lord is my shepherd\n", stdout.String())
	assert.Contains(t, stderr.String(), "line 4:")
	assert.Contains(t, stderr.String(), "line 5:")
	assert.Equal(t, []string{"BG Genesis 1 1", "BG Mark 99 ", "GPT Psalm 23 "}, source.calls)
}

// TestBatchCmd_AllSucceed verifies a clean batch returns no error
func TestBatchCmd_AllSucceed(t *testing.T) {
	source := &stubSource{texts: map[string]string{"Genesis 1": "In the beginning"}}
	rt, _, _ := setupTestSession(t, source)
	outDir := t.TempDir()

	batchFile := filepath.Join(t.TempDir(), "passages.txt")
	require.NoError(t, os.WriteFile(batchFile, []byte("BG NIV Genesis 1 1-2\n"), 0o644))

	require.NoError(t, (&BatchCmd{File: batchFile, Out: outDir}).Run(rt))
	assert.FileExists(t, filepath.Join(outDir, "BG_NIV_Genesis_1_1-2.txt"))
}

// failingCloser fails every Close.
type failingCloser struct{ closed bool }

func (c *failingCloser) Close() error {
	c.closed = true
	return errors.New("database is locked")
}

// TestCloseAfter verifies close errors are reported alongside command errors
func TestCloseAfter(t *testing.T) {
	runErr := errors.New("1 of 2 lookups failed")

	closer := &failingCloser{}
	err := closeAfter(nil, closer)
	assert.True(t, closer.closed)
	assert.EqualError(t, err, "failed to close: database is locked")

	err = closeAfter(runErr, &failingCloser{})
	assert.ErrorIs(t, err, runErr)
	assert.ErrorContains(t, err, "database is locked")

	assert.ErrorIs(t, closeAfter(runErr, io.NopCloser(nil)), runErr)
	assert.NoError(t, closeAfter(nil, io.NopCloser(nil)))
}

// TestVersionCmd verifies the version output
func TestVersionCmd(t *testing.T) {
	rt, stdout, _ := setupTestSession(t, &stubSource{})

	require.NoError(t, (&VersionCmd{}).Run(rt))
	assert.Equal(t, "yoinker version "+version+"\n", stdout.String())
}

// Package artifact persists a run's terminal outputs: canonical JSON
// exports of the ledger and score report, a human-readable report, and a
// compressed archive of the whole bundle. Exports are canonicalized so
// that byte-identical artifacts mean identical runs.
package artifact

import (
	"archive/tar"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gowebpki/jcs"
	"github.com/klauspost/compress/zstd"

	"github.com/agentbeats/veritrail/internal/models"
	"github.com/agentbeats/veritrail/internal/runner"
)

// Bundle file names inside the output directory.
const (
	LedgerFile     = "ledger.json"
	ReportFile     = "report.json"
	SubmissionFile = "submission.json"
	MarkdownFile   = "report.md"
	HTMLFile       = "report.html"
	ArchiveSuffix  = ".tar.zst"
)

// WriteBundle writes one run's artifact set under dir, creating it if
// needed. Returns the paths written.
func WriteBundle(dir string, out *runner.Outcome) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact dir: %w", err)
	}

	ledgerJSON, err := CanonicalJSON(out.Records)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing ledger: %w", err)
	}
	reportJSON, err := CanonicalReport(out.Report)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing report: %w", err)
	}

	md := RenderMarkdown(out.Report)
	html, err := RenderHTML(md)
	if err != nil {
		return nil, fmt.Errorf("rendering report html: %w", err)
	}

	files := map[string][]byte{
		LedgerFile:   ledgerJSON,
		ReportFile:   reportJSON,
		MarkdownFile: []byte(md),
		HTMLFile:     html,
	}
	if len(out.Submission) > 0 {
		files[SubmissionFile] = out.Submission
	}

	paths := make([]string, 0, len(files))
	for name, data := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// Archive packs the bundle directory into a zstd-compressed tarball next
// to it and returns the archive path.
func Archive(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading bundle dir: %w", err)
	}

	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		return "", err
	}
	tw := tar.NewWriter(zw)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := addFile(tw, dir, entry.Name()); err != nil {
			return "", err
		}
	}
	if err := tw.Close(); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}

	archivePath := filepath.Clean(dir) + ArchiveSuffix
	if err := os.WriteFile(archivePath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing archive: %w", err)
	}
	return archivePath, nil
}

func addFile(tw *tar.Writer, dir, name string) error {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = name
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}

// CanonicalJSON marshals v and canonicalizes the bytes per RFC 8785,
// matching the hashing scheme used for ledger records.
func CanonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jcs.Transform(raw)
}

// CanonicalReport canonicalizes a report with its wall-clock timestamp
// stripped, so identical runs export byte-identical report files. The
// generation time survives in the run store's created_at column and the
// human-readable renderings.
func CanonicalReport(r *models.ScoreReport) ([]byte, error) {
	stripped := *r
	stripped.GeneratedAt = time.Time{}
	return CanonicalJSON(&stripped)
}

package installer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v75/github"

	"provision-mac/internal/config"
	"provision-mac/internal/logger"
)

// installFont downloads a font archive from a GitHub release, extracts it
// and copies the font files into the user font directory.
func (e *Executor) installFont(f *config.Font) error {
	owner, repo, ok := strings.Cut(f.Repo, "/")
	if !ok {
		return fmt.Errorf("font repo %q must be owner/repo", f.Repo)
	}

	release, _, err := e.github.Repositories.GetReleaseByTag(context.Background(), owner, repo, f.Tag)
	if err != nil {
		return fmt.Errorf("fetch release %s@%s: %w", f.Repo, f.Tag, err)
	}

	assetURL, assetName := pickArchiveAsset(release.Assets)
	if assetURL == "" {
		return fmt.Errorf("no archive asset in release %s@%s", f.Repo, f.Tag)
	}
	logger.Debug("[DEBUG] Selected release asset %s\n", assetName)

	tmpDir, err := os.MkdirTemp("", "provision-font-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	archivePath := filepath.Join(tmpDir, assetName)
	if err := downloadFile(assetURL, archivePath); err != nil {
		return err
	}

	extractDir := filepath.Join(tmpDir, "extracted")
	if err := os.MkdirAll(extractDir, 0755); err != nil {
		return fmt.Errorf("create extraction dir: %w", err)
	}
	if err := ExtractArchive(archivePath, extractDir); err != nil {
		return fmt.Errorf("extract %s: %w", assetName, err)
	}

	fontFiles, err := collectFontFiles(extractDir)
	if err != nil {
		return err
	}
	if len(fontFiles) == 0 {
		return fmt.Errorf("no font files in release asset %s", assetName)
	}

	if err := os.MkdirAll(e.FontsDir, 0755); err != nil {
		return fmt.Errorf("create font directory %s: %w", e.FontsDir, err)
	}
	for _, src := range fontFiles {
		dst := filepath.Join(e.FontsDir, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("install font file %s: %w", filepath.Base(src), err)
		}
	}

	logger.Info("[INFO] Installed %d font file(s) for %s\n", len(fontFiles), f.Name)
	return nil
}

// pickArchiveAsset returns the first release asset with a supported archive
// suffix. Font releases usually ship one archive per family.
func pickArchiveAsset(assets []*github.ReleaseAsset) (url, name string) {
	for _, asset := range assets {
		lower := strings.ToLower(asset.GetName())
		for _, ext := range archiveExtensions {
			if strings.HasSuffix(lower, ext) {
				return asset.GetBrowserDownloadURL(), asset.GetName()
			}
		}
	}
	return "", ""
}

// downloadFile fetches url into destPath.
func downloadFile(url, destPath string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close response body: %v\n", cerr)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: HTTP status %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close %s: %v\n", destPath, cerr)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	logger.Debug("[DEBUG] Downloaded %s to %s\n", url, destPath)
	return nil
}

// collectFontFiles walks an extracted archive for installable font files.
func collectFontFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".ttf", ".otf":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan extracted fonts: %w", err)
	}
	return files, nil
}

// copyFile copies src to dst with mode 0644.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

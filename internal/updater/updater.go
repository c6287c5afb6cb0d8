// Package updater checks GitHub releases for a newer taskdeck and can
// replace the running binary in place.
//
// The check is best-effort and anonymous (public repo, no auth). The
// swap is atomic: the new binary is written next to the current one and
// renamed over it, so a failed download never leaves a half-written
// executable. The server is not restarted; the user does that.
package updater

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const (
	githubRepo   = "mfigueroa/taskdeck"
	binaryName   = "taskdeck"
	checkTimeout = 10 * time.Second
)

// Overridable in tests.
var (
	releaseEndpoint = "https://api.github.com/repos/" + githubRepo + "/releases/latest"
	httpClient      = &http.Client{Timeout: checkTimeout}
)

// Release is the subset of the GitHub release payload we use.
type Release struct {
	TagName string  `json:"tag_name"`
	HTMLURL string  `json:"html_url"`
	Assets  []Asset `json:"assets"`
}

// Asset is one downloadable file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// UpdateResult is the outcome of a version check.
type UpdateResult struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
	ReleaseURL      string
}

// latestRelease fetches the newest release from the GitHub API.
func latestRelease(currentVersion string) (*Release, error) {
	req, err := http.NewRequest(http.MethodGet, releaseEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", binaryName+"/"+currentVersion)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying releases: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("parsing release payload: %w", err)
	}
	return &release, nil
}

// CheckVersion compares the running version against the latest release.
// It never fails: on any network or API problem the result simply
// reports no update, since the check runs opportunistically at startup.
func CheckVersion(currentVersion string) *UpdateResult {
	result := &UpdateResult{CurrentVersion: strings.TrimPrefix(currentVersion, "v")}

	release, err := latestRelease(currentVersion)
	if err != nil {
		return result
	}

	result.LatestVersion = strings.TrimPrefix(release.TagName, "v")
	result.ReleaseURL = release.HTMLURL
	result.UpdateAvailable = parseVersion(result.LatestVersion).newerThan(parseVersion(result.CurrentVersion))
	return result
}

// SelfUpdate downloads the release archive for this OS/arch and swaps
// the running executable for the binary inside it.
func SelfUpdate(currentVersion string) error {
	release, err := latestRelease(currentVersion)
	if err != nil {
		return err
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	if !parseVersion(latest).newerThan(parseVersion(strings.TrimPrefix(currentVersion, "v"))) {
		return fmt.Errorf("already at latest version (%s)", currentVersion)
	}

	wantAsset := assetName(latest)
	var downloadURL string
	for _, asset := range release.Assets {
		if asset.Name == wantAsset {
			downloadURL = asset.BrowserDownloadURL
			break
		}
	}
	if downloadURL == "" {
		return fmt.Errorf("release %s has no asset for %s/%s (expected %s)", latest, runtime.GOOS, runtime.GOARCH, wantAsset)
	}

	resp, err := http.Get(downloadURL) //nolint:gosec // URL comes from the GitHub API
	if err != nil {
		return fmt.Errorf("downloading %s: %w", wantAsset, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s returned %d", wantAsset, resp.StatusCode)
	}

	binary, err := extractBinary(resp.Body, wantAsset)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", wantAsset, err)
	}

	return swapExecutable(binary)
}

// swapExecutable atomically replaces the running binary with data.
func swapExecutable(data []byte) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("finding current executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = resolved
	}

	tmpPath := execPath + ".new"
	if err := os.WriteFile(tmpPath, data, 0o755); err != nil {
		return fmt.Errorf("writing new binary: %w", err)
	}

	// Windows refuses to overwrite a running binary, but renaming it
	// away is allowed; the stale .old copy is cleaned up on the next run.
	if runtime.GOOS == "windows" {
		oldPath := execPath + ".old"
		_ = os.Remove(oldPath)
		if err := os.Rename(execPath, oldPath); err != nil {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("moving current binary aside: %w", err)
		}
	}

	if err := os.Rename(tmpPath, execPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing binary: %w", err)
	}
	return nil
}

// extractBinary pulls the taskdeck binary out of a release archive,
// picking the format from the asset name.
func extractBinary(r io.Reader, name string) ([]byte, error) {
	if strings.HasSuffix(name, ".zip") {
		return extractZip(r)
	}
	return extractTarGz(r)
}

// isBinaryEntry reports whether an archive member is the taskdeck binary.
func isBinaryEntry(name string) bool {
	base := filepath.Base(name)
	return base == binaryName || base == binaryName+".exe"
}

func extractTarGz(r io.Reader) ([]byte, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar: %w", err)
		}
		if header.Typeflag == tar.TypeReg && isBinaryEntry(header.Name) {
			return io.ReadAll(tr)
		}
	}
	return nil, fmt.Errorf("%s binary not found in archive", binaryName)
}

// extractZip spools the archive to a temp file first: zip needs random
// access and the download body is a plain stream.
func extractZip(r io.Reader) ([]byte, error) {
	tmp, err := os.CreateTemp("", binaryName+"-*.zip")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return nil, fmt.Errorf("spooling zip: %w", err)
	}

	zr, err := zip.NewReader(tmp, size)
	if err != nil {
		return nil, fmt.Errorf("opening zip: %w", err)
	}
	for _, f := range zr.File {
		if !isBinaryEntry(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s in zip: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s from zip: %w", f.Name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s binary not found in archive", binaryName)
}

// assetName is the archive filename GoReleaser produces for this
// OS/arch, e.g. "taskdeck_0.3.0_linux_amd64.tar.gz".
func assetName(version string) string {
	ext := "tar.gz"
	if runtime.GOOS == "windows" {
		ext = "zip"
	}
	return fmt.Sprintf("%s_%s_%s_%s.%s", binaryName, version, runtime.GOOS, runtime.GOARCH, ext)
}

// version is a parsed semver triple. Anything unparseable (including
// the "dev" placeholder baked into local builds) compares as zero.
type version struct {
	major, minor, patch int
	valid               bool
}

func parseVersion(s string) version {
	if s == "" || s == "dev" {
		return version{}
	}
	parts := strings.SplitN(s, ".", 3)
	var v version
	nums := []*int{&v.major, &v.minor, &v.patch}
	for i, p := range parts {
		// Tolerate pre-release suffixes like "1.2.3-rc1".
		if dash := strings.IndexByte(p, '-'); dash >= 0 {
			p = p[:dash]
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return version{}
		}
		*nums[i] = n
	}
	v.valid = true
	return v
}

// newerThan reports whether v is a strictly higher release than other.
// An invalid version on either side means "no update": a dev build never
// self-updates and an unparseable tag is never trusted.
func (v version) newerThan(other version) bool {
	if !v.valid || !other.valid {
		return false
	}
	if v.major != other.major {
		return v.major > other.major
	}
	if v.minor != other.minor {
		return v.minor > other.minor
	}
	return v.patch > other.patch
}

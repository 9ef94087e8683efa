// Package snapshot implements the orchestrator sequence of spec.md §4.8:
// it wires the config, ignore, walker, archive, differ, and format
// packages together into a single invocation, in the exact order their
// interdependencies require -- most importantly, the differ must read
// the prior archive before the writer overwrites it.
package snapshot

import (
	"log/slog"
	"os"

	"github.com/dircontxt/dctx/internal/archive"
	"github.com/dircontxt/dctx/internal/config"
	"github.com/dircontxt/dctx/internal/dctxerr"
	"github.com/dircontxt/dctx/internal/differ"
	"github.com/dircontxt/dctx/internal/format"
	"github.com/dircontxt/dctx/internal/ignore"
	"github.com/dircontxt/dctx/internal/model"
	"github.com/dircontxt/dctx/internal/pathutil"
	"github.com/dircontxt/dctx/internal/version"
	"github.com/dircontxt/dctx/internal/walker"
)

// Options controls a single Run invocation.
type Options struct {
	// Clipboard selects clipboard mode: the manifest is generated in
	// memory and returned in Result.ManifestText instead of being written
	// to disk, and the archive is deleted. Run does not touch the
	// clipboard itself; the caller copies ManifestText after Run returns,
	// by which time the archive is already gone.
	Clipboard bool
}

// Result reports what a Run invocation did.
type Result struct {
	Mode         config.OutputMode
	OldVersion   string
	NewVersion   string
	HasChanges   bool
	UpdateMode   bool
	Paths        Paths
	ManifestText string // populated in clipboard mode, empty otherwise
}

// Run executes the full orchestrator sequence against targetPath.
func Run(targetPath string, opts Options) (*Result, error) {
	logger := slog.Default().With("component", "snapshot")

	// Step 1: load config.
	root, err := pathutil.ResolveRoot(targetPath)
	if err != nil {
		return nil, dctxerr.Fatal("resolving target path", err)
	}

	cfg, err := config.LoadConfig(config.GlobalConfigPath())
	if err != nil {
		logger.Warn("failed to load global config, using defaults", "error", err)
		cfg = config.DefaultConfig()
	}

	// Step 2: tentative artifact paths (no version yet).
	tentative := computePaths(root, "")

	// Step 3: fresh vs update mode.
	var (
		oldTree    *model.Node
		oldReader  *archive.Reader
		oldVersion = version.Initial
		updateMode bool
	)

	if fileExists(tentative.Manifest) && fileExists(tentative.Archive) {
		manifestFile, openErr := os.Open(tentative.Manifest)
		if openErr != nil {
			logger.Warn("failed to open prior manifest, falling back to fresh mode", "error", openErr)
		} else {
			parsedVersion := version.ParseFirstLine(manifestFile)
			manifestFile.Close()

			tree, reader, readErr := archive.Read(tentative.Archive)
			if readErr != nil {
				// Format errors on the prior archive are recovered by
				// treating it as absent, per spec.md §7: a fresh snapshot
				// is produced rather than aborting the run.
				logger.Warn("prior archive unreadable, falling back to fresh mode", "error", readErr)
			} else {
				updateMode = true
				oldVersion = parsedVersion
				oldTree = tree
				oldReader = reader
			}
		}
	}

	// Step 4: load ignores, walk the tree. The default-ignore pattern is
	// the snapshot's own output filename (spec.md §4.1 item 1), not the
	// target directory's basename.
	engine, err := ignore.Load(root, pathutil.Basename(tentative.Archive))
	if err != nil {
		logger.Warn("ignore rule loading encountered an error, continuing with rules loaded so far", "error", err)
	}

	newTree, err := walker.New().Walk(root, engine)
	if err != nil {
		return nil, dctxerr.Fatal("walking target directory", err)
	}

	// Step 5: differ + content verification.
	var report *differ.Report
	hasChanges := true // fresh mode always "has changes" in the sense that this is the first snapshot
	if updateMode {
		report = differ.Diff(oldTree, newTree)
		if err := differ.VerifyContent(report, oldReader, root); err != nil {
			return nil, dctxerr.Fatal("verifying content", err)
		}
		hasChanges = report.HasChanges
	}

	// Step 6: compute new version.
	var newVersion string
	switch {
	case !updateMode:
		newVersion = version.Initial
	case hasChanges:
		newVersion = version.Increment(oldVersion)
	default:
		newVersion = oldVersion
	}

	// Step 7: recompute artifact paths with the real version token.
	paths := computePaths(root, newVersion)

	// Step 8: write the new archive. This must happen after the differ
	// has already read the prior archive above.
	if err := archive.Write(newTree, root, paths.Archive); err != nil {
		return nil, dctxerr.Fatal("writing archive", err)
	}

	result := &Result{
		Mode:       cfg.OutputMode,
		OldVersion: oldVersion,
		NewVersion: newVersion,
		HasChanges: hasChanges,
		UpdateMode: updateMode,
		Paths:      paths,
	}

	// Step 9: diff file, only for real changes in update mode. Re-reading
	// the just-written archive isn't needed to build the diff text itself
	// (content blocks read straight from disk), but spec.md §4.8 calls for
	// it so the new archive's offsets are validated before the diff is
	// considered final.
	if updateMode && hasChanges {
		if _, _, err := archive.Read(paths.Archive); err != nil {
			return nil, dctxerr.Fatal("reading back new archive for diff IDs", err)
		}

		diffText, err := format.BuildDiff(report, newTree, root, oldVersion, newVersion)
		if err != nil {
			return nil, dctxerr.Fatal("building diff file", err)
		}
		if err := os.WriteFile(paths.Diff, []byte(diffText), 0o644); err != nil {
			return nil, dctxerr.Fatal("writing diff file", err)
		}
	}

	// Clipboard mode short-circuits the remaining steps: render the
	// manifest to memory for the caller and delete the archive. The
	// archive is removed here, before the caller copies the manifest to
	// the clipboard.
	if opts.Clipboard {
		manifest, err := format.BuildManifest(newTree, root, newVersion)
		if err != nil {
			return nil, dctxerr.Fatal("building manifest", err)
		}
		result.ManifestText = manifest

		if err := os.Remove(paths.Archive); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to delete archive after clipboard copy", "error", err)
		}
		return result, nil
	}

	// Step 10: manifest, unless binary-only.
	if cfg.OutputMode == config.OutputBinaryOnly {
		removeIfExists(paths.Manifest, logger)
		removeIfExists(paths.Diff, logger)
		return result, nil
	}

	manifest, err := format.BuildManifest(newTree, root, newVersion)
	if err != nil {
		return nil, dctxerr.Fatal("building manifest", err)
	}
	if err := os.WriteFile(paths.Manifest, []byte(manifest), 0o644); err != nil {
		return nil, dctxerr.Fatal("writing manifest", err)
	}

	// Step 11: in-memory trees go out of scope with this function.
	return result, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func removeIfExists(path string, logger *slog.Logger) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove stale artifact", "path", path, "error", err)
	}
}

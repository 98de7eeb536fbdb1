package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// stateDir is never analyzed.
const stateDir = ".classmeta"

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// FileDiscovery finds source files under a root directory with include globs
// and ignore rules.
type FileDiscovery struct {
	rootDir        string
	includePattern []compiledPattern
	ignorePatterns []compiledPattern
}

// NewFileDiscovery creates a new file discovery instance.
func NewFileDiscovery(rootDir string, include, ignore []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{
		rootDir: rootDir,
	}

	var err error
	if fd.includePattern, err = compilePatterns(include); err != nil {
		return nil, err
	}
	if fd.ignorePatterns, err = compilePatterns(ignore); err != nil {
		return nil, err
	}

	return fd, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		compiled = append(compiled, compiledPattern{pattern: pattern, glob: g})
	}
	return compiled, nil
}

// DiscoverFiles walks the directory tree and returns matching files, sorted.
func (fd *FileDiscovery) DiscoverFiles() ([]string, error) {
	files := []string{}

	err := filepath.Walk(fd.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Get relative path for pattern matching
		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}

		// Normalize path separators for glob matching
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && fd.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if fd.shouldIgnore(relPath) {
			return nil
		}

		if fd.matchesAnyPattern(relPath, fd.includePattern) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}

// shouldIgnore checks if a path matches any ignore pattern.
func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	if strings.HasPrefix(relPath, stateDir+"/") || relPath == stateDir {
		return true
	}

	if fd.matchesAnyPattern(relPath, fd.ignorePatterns) {
		return true
	}

	// A directory such as "node_modules" is ignored by "node_modules/**".
	pathWithSuffix := relPath + "/**"
	return fd.matchesAnyPattern(pathWithSuffix, fd.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func (fd *FileDiscovery) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// "**/*.h" should match "point.h" in the root as well as "inc/point.h".
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if simplifiedGlob, err := glob.Compile(simplified, '/'); err == nil {
					if simplifiedGlob.Match(path) {
						return true
					}
				}
			}
		}
	}

	return false
}

// Discover returns the files under root that match include and no ignore
// pattern.
func Discover(root string, include, ignore []string) ([]string, error) {
	fd, err := NewFileDiscovery(root, include, ignore)
	if err != nil {
		return nil, err
	}
	return fd.DiscoverFiles()
}

// CollectFiles expands the given inputs into the list of files to analyze.
// Directories are discovered with the include and ignore globs; files are
// taken as given. Order follows the inputs and duplicates are dropped.
func CollectFiles(inputs, include, ignore []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		key := filepath.Clean(path)
		if !seen[key] {
			seen[key] = true
			files = append(files, path)
		}
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", input, err)
		}
		if !info.IsDir() {
			add(input)
			continue
		}

		discovered, err := Discover(input, include, ignore)
		if err != nil {
			return nil, fmt.Errorf("failed to discover files in %s: %w", input, err)
		}
		for _, path := range discovered {
			add(path)
		}
	}

	return files, nil
}

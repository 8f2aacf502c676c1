package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fenceline-io/fenceline/types"
)

// Document is one scanned guide file with its extracted blocks.
type Document struct {
	// Path is the document path relative to the scan root.
	Path string
	// Blocks are the extracted blocks, ordinal order.
	Blocks []types.Block
}

// ScanResult is the outcome of scanning a directory tree.
// Malformed documents are recorded, not fatal for the scan.
type ScanResult struct {
	// Documents holds successfully extracted documents, lexical path order.
	Documents []Document
	// Malformed holds the extraction failures, lexical path order.
	Malformed []*MalformedDocumentError
}

// guideExtensions are the file extensions treated as guide documents.
var guideExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
}

// ScanDir walks root and extracts every guide document beneath it.
// Paths in the result are relative to root. WalkDir visits entries in
// lexical order, so the result ordering is deterministic.
func ScanDir(root string) (*ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot scan %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	result := &ScanResult{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Skip hidden directories (.git and friends)
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !guideExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		source, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("cannot read %s: %w", rel, readErr)
		}

		blocks, exErr := Extract(rel, source)
		if exErr != nil {
			var malformed *MalformedDocumentError
			if errors.As(exErr, &malformed) {
				result.Malformed = append(result.Malformed, malformed)
				return nil
			}
			return exErr
		}

		result.Documents = append(result.Documents, Document{Path: rel, Blocks: blocks})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

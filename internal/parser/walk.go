package parser

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// walkFiles returns the sorted flat list of regular files under root
// (§4.1 step 1 "Walk directory; build the flat list of regular files
// (sorted for determinism)"), and separately reports any empty
// directories encountered (used by the general "no empty directories"
// check).
func walkFiles(root string) (files []string, emptyDirs []string, err error) {
	dirHasEntries := make(map[string]bool)

	err = filepath.Walk(root, func(path string, info os.FileInfo, werr error) error {
		if werr != nil {
			return werr
		}
		if path == root {
			return nil
		}
		parent := filepath.Dir(path)
		dirHasEntries[parent] = true
		if info.IsDir() {
			if _, ok := dirHasEntries[path]; !ok {
				dirHasEntries[path] = false
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	for dir, has := range dirHasEntries {
		if !has {
			rel, relErr := filepath.Rel(root, dir)
			if relErr == nil {
				emptyDirs = append(emptyDirs, rel)
			}
		}
	}

	sort.Strings(files)
	sort.Strings(emptyDirs)
	return files, emptyDirs, nil
}

// isHidden reports whether rel's basename starts with '.' (§4.3 "no
// hidden files").
func isHidden(rel string) bool {
	return strings.HasPrefix(filepath.Base(rel), ".")
}

// classifyDescriptor buckets a candidate *.xml file by its root element,
// matching §4.1 step 1's "filter for ... all top-level *.xml whose
// parsed root element matches a known descriptor".
type descriptorKind int

const (
	descriptorNone descriptorKind = iota
	descriptorAssetMap
	descriptorVolumeIndex
	descriptorPKL
	descriptorCPL
	descriptorKDM
)

func classifyByRootElement(root string) descriptorKind {
	switch root {
	case "AssetMap":
		return descriptorAssetMap
	case "VolumeIndex":
		return descriptorVolumeIndex
	case "PackingList":
		return descriptorPKL
	case "CompositionPlaylist":
		return descriptorCPL
	case "DCinemaSecurityMessage":
		return descriptorKDM
	default:
		return descriptorNone
	}
}

func classifyByBasename(basename string) descriptorKind {
	switch basename {
	case "ASSETMAP", "ASSETMAP.xml":
		return descriptorAssetMap
	case "VOLINDEX", "VOLINDEX.xml":
		return descriptorVolumeIndex
	default:
		return descriptorNone
	}
}

// Package model holds the typed, UUID-linked in-memory representation of
// a parsed Digital Cinema Package (§3): Package,
// AssetMap, VolumeIndex, PackingList, CompositionPlaylist, Reel, Asset,
// Probe and KDM. Only the parser (internal/parser) mutates these types;
// every check module takes them by read-only reference.
package model

// Schema identifies which family of SMPTE/Interop XML namespaces a
// descriptor belongs to.
type Schema string

const (
	SchemaInterop Schema = "Interop"
	SchemaSMPTE   Schema = "SMPTE"
	SchemaUnknown Schema = "Unknown"
)

// PackageType distinguishes a self-contained Original Version from a
// Version File that relinks assets from an OV.
type PackageType string

const (
	PackageOV      PackageType = "OV"
	PackageVF      PackageType = "VF"
	PackageUnknown PackageType = "Unknown"
)

// Mixed is the sentinel CPL aggregates use when reels disagree on a
// value that should be CPL-wide coherent (§3, §4.6).
const Mixed = "Mixed"

// Unknown is the sentinel CPL aggregates use when no reel carries the
// relevant essence kind at all.
const UnknownValue = "Unknown"

// Package is the root of the parsed tree: one directory, its resolved
// descriptors, and whatever files on disk were not referenced by any of
// them.
type Package struct {
	Path   string
	Size   int64
	Schema Schema
	Type   PackageType

	AssetMap   *AssetMap
	VolIndex   *VolumeIndex
	PKLs       []*PackingList
	CPLs       []*CompositionPlaylist
	KDMs       []*KDM

	// ForeignFiles are on-disk regular files that are not the resolved
	// path of any AssetMap entry and not the AssetMap/VolumeIndex file
	// itself.
	ForeignFiles []string

	// AllFiles is the sorted, flat list of every regular file found
	// under Path during the directory walk (§4.1 step 1).
	AllFiles []string

	// OV, when this package was loaded with an OV companion (§4.1 step
	// 6, §4.3 general check), is the parsed OV package used to resolve
	// assets missing locally.
	OV *Package
}

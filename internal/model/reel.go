package model

// Reel is a time-contiguous segment of a CPL (§3): a 1-based position
// and a map from essence kind to the Asset occupying that slot.
type Reel struct {
	Position int
	UUID     string
	Assets   map[EssenceKind]*Asset
}

// Picture is a convenience accessor; every reel is expected to carry
// exactly one (§4.6 "every reel's picture lasts >= 1 second").
func (r *Reel) Picture() *Asset { return r.Assets[EssencePicture] }

// Sound returns the reel's sound asset, or nil if the reel carries none.
func (r *Reel) Sound() *Asset { return r.Assets[EssenceSound] }

// AuxData returns the reel's Atmos/immersive-audio asset, or nil.
func (r *Reel) AuxData() *Asset { return r.Assets[EssenceAuxData] }

// Subtitle returns the reel's timed-text asset, or nil.
func (r *Reel) Subtitle() *Asset { return r.Assets[EssenceSubtitle] }

// Has reports whether the reel carries an asset of the given kind.
func (r *Reel) Has(kind EssenceKind) bool {
	_, ok := r.Assets[kind]
	return ok
}

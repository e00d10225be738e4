package checks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Ymagis/ClairMeta/internal/cache"
	"github.com/Ymagis/ClairMeta/internal/check"
	"github.com/Ymagis/ClairMeta/internal/model"
	"github.com/Ymagis/ClairMeta/internal/util"
)

func init() {
	registerPKL("check_pkl_creator", "PKL Creator is populated", checkPKLCreator)
	registerPKL("check_pkl_issue_date", "PKL IssueDate is not in the future", checkPKLIssueDate)
	registerAssetPKL("check_assets_pkl_uuid_in_assetmap", "PKL asset UUID exists in the AssetMap", checkAssetPKLInAssetMap)
	registerAssetPKL("check_assets_pkl_size", "PKL asset on-disk size matches declared Size", checkAssetPKLSize)
	registerAssetPKL("check_assets_pkl_hash", "PKL asset SHA-1 hash matches declared Hash", checkAssetPKLHash)
}

func checkPKLCreator(ctx *check.Context, pkl *model.PackingList) {
	if strings.TrimSpace(pkl.Creator) == "" {
		ctx.Error("PKL Creator field is empty")
	}
}

// checkPKLIssueDate implements §4.5 "IssueDate not in the future
// (compared at the timezone of the issue)".
func checkPKLIssueDate(ctx *check.Context, pkl *model.PackingList) {
	if pkl.IssueDate.IsZero() {
		ctx.Error("PKL IssueDate could not be parsed")
		return
	}
	if pkl.IssueDate.After(time.Now().In(pkl.IssueDate.Location())) {
		ctx.Errorf("PKL IssueDate %s is in the future", pkl.IssueDate.Format(time.RFC3339))
	}
}

// checkAssetPKLInAssetMap relies on the asset's resolved Path, which the
// parser leaves nil when the UUID could not be found in the AssetMap
// (§4.1 step 4).
func checkAssetPKLInAssetMap(ctx *check.Context, pkl *model.PackingList, asset *model.PKLAsset) {
	if asset.Path == nil {
		ctx.Errorf("PKL asset %s has no matching AssetMap entry", asset.UUID)
	}
}

func checkAssetPKLSize(ctx *check.Context, pkl *model.PackingList, asset *model.PKLAsset) {
	if asset.Path == nil {
		return
	}
	size, err := util.FileSize(*asset.Path)
	if err != nil {
		ctx.Errorf("PKL asset %s: cannot stat %s: %v", asset.UUID, *asset.Path, err)
		return
	}
	if size != asset.Size {
		ctx.Errorf("PKL asset %s on-disk size %d does not match declared Size %d", asset.UUID, size, asset.Size)
	}
}

// hashCache memoizes SHA-1 hashes by UUID across multiple PKLs that
// reference the same asset file, per §4.5 "hashes are memoized across
// multi-PKL packages by UUID".
var hashCache = struct {
	mu sync.Mutex
	m  map[string]string
}{m: make(map[string]string)}

// HashProgress, if set, receives hashing progress callbacks (path, bytes
// done, bytes total, elapsed) per §4.5/§5. The facade assigns this
// before running checks.
var HashProgress util.ProgressFunc

// PersistentCache, if set, backs hashCache across process runs (§9
// "cache backend selection"). The facade assigns this before running
// checks. With no cache backend configured the CLI passes a no-op store;
// a nil value skips the persistent lookups altogether.
var PersistentCache cache.Store

func checkAssetPKLHash(ctx *check.Context, pkl *model.PackingList, asset *model.PKLAsset) {
	if asset.Path == nil || asset.Hash == "" {
		return
	}

	hashCache.mu.Lock()
	cached, ok := hashCache.m[asset.UUID]
	hashCache.mu.Unlock()

	if !ok && PersistentCache != nil {
		if value, found, err := PersistentCache.Get(context.Background(), asset.UUID); err == nil && found {
			cached, ok = value, true
		}
	}

	var actual string
	if ok {
		actual = cached
	} else {
		var err error
		actual, err = util.SHA1Base64(*asset.Path, HashProgress)
		if err != nil {
			ctx.Errorf("PKL asset %s: cannot hash %s: %v", asset.UUID, *asset.Path, err)
			return
		}
		hashCache.mu.Lock()
		hashCache.m[asset.UUID] = actual
		hashCache.mu.Unlock()
		if PersistentCache != nil {
			_ = PersistentCache.Put(context.Background(), asset.UUID, actual)
		}
	}

	if actual != asset.Hash {
		ctx.Errorf("PKL asset %s SHA-1 %s does not match declared Hash %s", asset.UUID, actual, asset.Hash)
	}
}

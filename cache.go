package slidejsx

import (
	"sync"

	"github.com/corona10/goimagehash"
)

var globalCache = &cache{}

// cache holds perceptual hashes keyed by the checksum of the image data.
type cache struct {
	m sync.Map
}

func LoadHashCache(checksum uint32) (*goimagehash.ImageHash, bool) {
	if v, ok := globalCache.m.Load(checksum); ok {
		if h, ok := v.(*goimagehash.ImageHash); ok {
			return h, true
		}
	}
	return nil, false
}

func StoreHashCache(checksum uint32, h *goimagehash.ImageHash) {
	if h == nil {
		return
	}
	globalCache.m.Store(checksum, h)
}

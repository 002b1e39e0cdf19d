package nearcaptcha

import (
	"image"
	"sync"
)

var globalCache = &cache{}

type cache struct {
	m sync.Map
}

func LoadStampCache(key string) (image.Image, bool) {
	if v, ok := globalCache.m.Load(key); ok {
		if i, ok := v.(image.Image); ok {
			return i, true
		}
	}
	return nil, false
}

func StoreStampCache(key string, i image.Image) {
	if i == nil {
		return
	}
	globalCache.m.Store(key, i)
}

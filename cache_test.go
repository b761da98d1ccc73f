package slidejsx

import (
	"testing"

	"github.com/corona10/goimagehash"
)

func clearCache() {
	globalCache = &cache{}
}

func TestLoadHashCache(t *testing.T) {
	clearCache()
	defer clearCache() // don't use t.Cleanup here, want to clear before next test

	if _, ok := LoadHashCache(1); ok {
		t.Fatal("LoadHashCache found a hash in the empty cache")
	}
	h := goimagehash.NewImageHash(0xff, goimagehash.PHash)
	StoreHashCache(1, h)
	StoreHashCache(2, nil)

	got, ok := LoadHashCache(1)
	if !ok {
		t.Fatal("LoadHashCache failed to find cached hash")
	}
	if got.ToString() != h.ToString() {
		t.Errorf("got %s, want %s", got.ToString(), h.ToString())
	}
	if _, ok := LoadHashCache(2); ok {
		t.Error("nil hash should not be cached")
	}
}

func TestPHashUsesCache(t *testing.T) {
	clearCache()
	defer clearCache()

	i, err := NewImageFromBase64(dummyPNGBase64(t))
	if err != nil {
		t.Fatal(err)
	}
	want := goimagehash.NewImageHash(0x1234, goimagehash.PHash)
	StoreHashCache(i.Checksum(), want)

	got, err := i.PHash()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("PHash did not return the cached hash: got %s", got.ToString())
	}
}

package imageloading

import (
	"os"
	"path/filepath"
	"testing"
)

func Test_Config_WriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	c := DefaultConfig()
	c.MemoryCacheMaxItems = 42
	c.DiskCacheDir = "/tmp/images"
	if err := c.WriteConfigFile(path); err != nil {
		t.Fatal(err)
	}

	got, err := ReadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.MemoryCacheMaxItems != 42 || got.DiskCacheDir != "/tmp/images" {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func Test_Config_ReadMissingFile(t *testing.T) {
	_, err := ReadConfigFile(filepath.Join(t.TempDir(), "nope.toml"))
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func Test_Config_ReadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("MemoryCacheMaxItems = 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.MemoryCacheMaxItems != 7 {
		t.Errorf("explicit value not read: %d", got.MemoryCacheMaxItems)
	}
	if got.HTTPRetryMax != DefaultConfig().HTTPRetryMax {
		t.Error("unset fields should keep their defaults")
	}
}

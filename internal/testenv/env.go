package testenv

import "path/filepath"

// Dirs contains isolated directories for vibequota config/cache in tests.
type Dirs struct {
	Base   string
	Config string
	Cache  string
}

// VibequotaDirs returns conventional test directories rooted at base.
func VibequotaDirs(base string) Dirs {
	return Dirs{
		Base:   base,
		Config: filepath.Join(base, "config"),
		Cache:  filepath.Join(base, "cache"),
	}
}

// ApplyVibequota sets VIBEQUOTA_* env vars to isolated test directories.
func ApplyVibequota(setenv func(string, string), base string) Dirs {
	dirs := VibequotaDirs(base)
	setenv("VIBEQUOTA_CONFIG_DIR", dirs.Config)
	setenv("VIBEQUOTA_CACHE_DIR", dirs.Cache)
	return dirs
}

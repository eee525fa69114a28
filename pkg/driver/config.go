package driver

import (
	"github.com/BurntSushi/toml"

	"kestrel/pkg/vm"
)

// Config is the session configuration read from a TOML file.
type Config struct {
	MaxFrames    int `toml:"max_frames"`
	HeapCapacity int `toml:"heap_capacity"`
}

// LoadConfig reads a TOML config file. Missing keys keep the isolate
// defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Options converts the config to isolate options; zero values fall through
// to the defaults.
func (c Config) Options() vm.Options {
	return vm.Options{MaxFrames: c.MaxFrames, HeapCapacity: c.HeapCapacity}
}

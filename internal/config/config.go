// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// File is an optional TOML run configuration. It supplies defaults for the
// tunables that rarely change between runs; explicit flags always win.
//
//	metric = "cosine"
//	select = "top"
//	n-kmers = 2000
//	bins = [0, 4, 16, 64, 1024]
type File struct {
	Metric      string `toml:"metric"`
	Select      string `toml:"select"`
	NKmers      int    `toml:"n-kmers"`
	PositionCap int    `toml:"position-cap"`
	Bootstrap   int    `toml:"bootstrap"`
	Bins        []int  `toml:"bins"`
}

// Load reads and decodes a TOML config file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &f, nil
}

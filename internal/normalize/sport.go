// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	_ "embed"
	"fmt"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trackconvert/pkg/types"
)

//go:embed sportmap.yaml
var sportMapYAML []byte

// sportMapFile is the on-disk shape of the mapping table.
type sportMapFile struct {
	Running []string `yaml:"running"`
	Biking  []string `yaml:"biking"`
}

var sportLookup map[string]types.Sport

func init() {
	var err error
	sportLookup, err = loadSportMap(sportMapYAML)
	if err != nil {
		panic(fmt.Sprintf("normalize: embedded sport map: %v", err))
	}
}

func loadSportMap(data []byte) (map[string]types.Sport, error) {
	var f sportMapFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	m := make(map[string]types.Sport, len(f.Running)+len(f.Biking))
	for _, code := range f.Running {
		m[code] = types.SportRunning
	}
	for _, code := range f.Biking {
		m[code] = types.SportBiking
	}
	return m, nil
}

// SportFor collapses a vendor exercise type to one of the three TCX-legal
// sports. Unknown types are SportOther; that is a documented limitation of
// the output format, not an error.
func SportFor(vendorType string) types.Sport {
	if s, ok := sportLookup[vendorType]; ok {
		return s
	}
	return types.SportOther
}

// Copyright 2026 The Sparsehash Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sparsehash

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk, TOML-decoded form of the options a Table accepts,
// for callers that want defaults sourced from a config file rather than
// assembled as Option values in code.
type Config struct {
	MaxLoadFactor      float64 `toml:"max_load_factor"`
	TombstoneThreshold float64 `toml:"tombstone_threshold"`
	GrowthPolicy       string  `toml:"growth_policy"`
	GrowthFactor       float64 `toml:"growth_factor"`
	InitialCapacity    int     `toml:"initial_capacity"`
	Sparsity           int     `toml:"sparsity"`
	HashCaching        bool    `toml:"hash_caching"`
}

func defaultConfig() Config {
	return Config{
		MaxLoadFactor:      defaultMaxLoadFactor,
		TombstoneThreshold: defaultTombstoneThreshold,
		GrowthPolicy:       "pow2",
		GrowthFactor:       1.5,
		InitialCapacity:    defaultMinBucketCount,
		Sparsity:           defaultSparsity,
		HashCaching:        true,
	}
}

// LoadConfig decodes a TOML file into a Config, filling any field absent
// from the file with its default.
func LoadConfig(path string) (Config, error) {
	c := defaultConfig()
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, fmt.Errorf("sparsehash: loading config %s: %w", path, err)
	}
	return c, nil
}

// Policy constructs the GrowthPolicy named by c.GrowthPolicy.
func (c Config) Policy() (GrowthPolicy, error) {
	switch c.GrowthPolicy {
	case "", "pow2":
		return &PowerOfTwoPolicy{}, nil
	case "prime":
		return &PrimeModuloPolicy{}, nil
	case "factor":
		return NewArbitraryFactorPolicy(c.GrowthFactor), nil
	default:
		return nil, fmt.Errorf("sparsehash: unknown growth policy %q: %w", c.GrowthPolicy, ErrInvalidArgument)
	}
}

// OptionsFromConfig translates c into the minimum bucket count and Option
// slice NewMap/NewSet expect: NewMap(capacity, hasher, equal, opts...).
// c.InitialCapacity has no corresponding Option — bucket count is a
// constructor argument, not a per-Table setting — so it is returned
// alongside opts rather than silently dropped.
//
// This is a free function, not a Config method, because Go methods cannot
// introduce type parameters beyond their receiver's.
func OptionsFromConfig[K comparable, V any](c Config) (capacity int, opts []Option[K, V], err error) {
	policy, err := c.Policy()
	if err != nil {
		return 0, nil, err
	}
	return c.InitialCapacity, []Option[K, V]{
		WithGrowthPolicy[K, V](policy),
		WithMaxLoadFactor[K, V](c.MaxLoadFactor),
		WithTombstoneThreshold[K, V](c.TombstoneThreshold),
		WithSparsity[K, V](c.Sparsity),
		WithHashCaching[K, V](c.HashCaching),
	}, nil
}

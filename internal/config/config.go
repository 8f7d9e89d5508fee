// Copyright 2024 Kelvin Clement Mwinuka
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"flag"
	"log"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// Config carries the tunables spec 3/4.7 call out as implementation
// defaults, plus the bind address for the standalone server, modeled on
// the teacher's flag+YAML-overlay GetConfig.
type Config struct {
	BindAddr           string `json:"BindAddr" yaml:"BindAddr"`
	Port               uint16 `json:"Port" yaml:"Port"`
	NumShards          int    `json:"NumShards" yaml:"NumShards"`
	MaxPackedEntries   int    `json:"MaxPackedEntries" yaml:"MaxPackedEntries"`
	MaxPackedMemberLen int    `json:"MaxPackedMemberLen" yaml:"MaxPackedMemberLen"`
	ScanBatchSize      int    `json:"ScanBatchSize" yaml:"ScanBatchSize"`
}

// GetConfig parses command-line flags and, if -config points at a YAML
// file, overlays values read from it on top of the flag defaults.
func GetConfig() (Config, error) {
	bindAddr := flag.String("bind-addr", "127.0.0.1", "Address for the server to listen on.")
	port := flag.Int("port", 7600, "Port for the server to listen on.")
	numShards := flag.Int("num-shards", 8, "Number of key-space shards.")
	maxPackedEntries := flag.Int("max-packed-entries", 128,
		"Sorted sets with at most this many members stay in the packed encoding.")
	maxPackedMemberLen := flag.Int("max-packed-member-len", 64,
		"Sorted sets with any member longer than this many bytes promote to the indexed encoding.")
	scanBatchSize := flag.Int("scan-batch-size", 20,
		"Stored in Config only; ZSCAN always uses the fixed batch size zset.ScanBatchSize.")
	config := flag.String("config", "", "File path to a YAML config file. Its values override the flag values.")

	flag.Parse()

	conf := Config{
		BindAddr:           *bindAddr,
		Port:               uint16(*port),
		NumShards:          *numShards,
		MaxPackedEntries:   *maxPackedEntries,
		MaxPackedMemberLen: *maxPackedMemberLen,
		ScanBatchSize:      *scanBatchSize,
	}

	if len(*config) > 0 {
		f, err := os.Open(*config)
		if err != nil {
			return Config{}, err
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				log.Println(cerr)
			}
		}()

		if ext := path.Ext(f.Name()); ext == ".yaml" || ext == ".yml" {
			if err = yaml.NewDecoder(f).Decode(&conf); err != nil {
				return Config{}, err
			}
		}
	}

	if conf.NumShards < 1 {
		return Config{}, errors.New("num-shards must be at least 1")
	}

	return conf, nil
}

package utils

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out unique silly names for exported scenes.
type RandomNameGenerator struct {
	lock sync.Mutex
	used map[string]struct{}
}

func NewRandomNameGenerator(seed int64) *RandomNameGenerator {
	randomdata.CustomRand(rand.New(rand.NewSource(seed)))
	return &RandomNameGenerator{used: make(map[string]struct{})}
}

func (rng *RandomNameGenerator) RandomName() string {
	rng.lock.Lock()
	defer rng.lock.Unlock()
	for {
		name := strings.ReplaceAll(randomdata.SillyName(), " ", "")
		// avoid duplicate names
		if _, exists := rng.used[name]; !exists {
			rng.used[name] = struct{}{}
			return name
		}
	}
}

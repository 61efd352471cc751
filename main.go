// Package main is the entry point for the playcore application.
package main

import (
	"github.com/anisan-cli/playcore/cmd"
	"github.com/anisan-cli/playcore/config"
	"github.com/anisan-cli/playcore/history"
	"github.com/anisan-cli/playcore/internal/cache"
	"github.com/anisan-cli/playcore/log"
	"github.com/anisan-cli/playcore/thumbnail"
	"github.com/anisan-cli/playcore/where"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Expired thumbnail cues are pruned and journaled progress writes retried in the background.
	cache.New(where.Thumbnails(), thumbnail.TTL).CollectGarbage()
	go func() {
		if n, err := history.Replay(history.Default(), where.FailedWrites()); err != nil {
			log.Warnf("replaying failed progress writes: %v", err)
		} else if n > 0 {
			log.Infof("replayed %d failed progress writes", n)
		}
	}()

	cmd.Execute()
}

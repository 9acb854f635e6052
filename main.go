// main is the entry point for the snapcal CLI.
package main

import (
	"github.com/huangsam/snapcal/cmd"
	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}

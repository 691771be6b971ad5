// Ratechart turns A/B test visit and conversion counts into conversion rate charts.
package main

import (
	"github.com/huangsam/ratechart/cmd"
	"github.com/huangsam/ratechart/internal/contract"
	"github.com/huangsam/ratechart/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseCaching()

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		iocache.CloseCaching()
		contract.LogFatal("Error starting CLI", err)
	}
}

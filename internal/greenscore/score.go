// Package greenscore scores companies on emissions per kilometre, load
// efficiency and renewable share, and ranks them into a leaderboard.
package greenscore

// ComputeGreenScore returns (loadEfficiency * (1 + renewableShare)) / (co2Tons / totalDistanceKm).
// A zero distance or zero emissions yields 0 instead of an undefined or infinite score.
func ComputeGreenScore(co2Tons, totalDistanceKm, loadEfficiency, renewableShare float64) float64 {
	if totalDistanceKm == 0 || co2Tons == 0 {
		return 0
	}
	return (loadEfficiency * (1 + renewableShare)) / (co2Tons / totalDistanceKm)
}

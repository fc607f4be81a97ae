package challenge

import "match-handler/util"

const mercyScoreDifference = 5

// HasUserPermaFailed reports whether more play time can no longer change the outcome.
func HasUserPermaFailed(c *Challenge, stats ManualStats) bool {
	if c.CompletionConditions == nil {
		return false
	}
	limit := c.CompletionConditions.SelfDemoCount
	return limit != nil && stats.ReceivedDemos > *limit
}

// CalculateCompletion evaluates every present completion condition; they are
// all required. Without conditions, completion is a human win.
func CalculateCompletion(c *Challenge, stats ManualStats, results *GameResult) bool {
	return evaluate(c, stats, results, true)
}

// EndByMercy reports whether the conditions (perma-fail aside) are met and the
// leading team is ahead by at least five.
func EndByMercy(c *Challenge, stats ManualStats, results *GameResult) bool {
	return results.ScoreDifference() >= mercyScoreDifference && evaluate(c, stats, results, false)
}

func evaluate(c *Challenge, stats ManualStats, results *GameResult, checkPermaFail bool) bool {
	completed := results.HumanWon
	conditions := c.CompletionConditions
	if conditions == nil {
		return completed
	}

	if checkPermaFail && HasUserPermaFailed(c, stats) {
		return false
	}

	// win: false drops the win requirement.
	if !util.PtrValueOrDef(conditions.Win, true) {
		completed = true
	}

	if conditions.ScoreDifference != nil {
		completed = completed && results.ScoreDifference() >= *conditions.ScoreDifference
	}

	if conditions.DemoAchievedCount != nil {
		completed = completed && stats.OpponentReceivedDemos >= *conditions.DemoAchievedCount
	}

	if conditions.GoalsScored != nil {
		completed = completed && stats.HumanGoalsScored >= *conditions.GoalsScored
	}

	return completed
}

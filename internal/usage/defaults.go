package usage

import "time"

const (
	defaultPlan  = "Starter"
	defaultLimit = 10
	window       = 7 * 24 * time.Hour
)

func defaultUsage(now time.Time) Usage {
	return Usage{
		Plan:     defaultPlan,
		Limit:    defaultLimit,
		Used:     0,
		ResetsAt: now.Add(window),
	}
}

// rollover starts a new window when the current one has ended.
func rollover(u Usage, now time.Time) (Usage, bool) {
	if now.Before(u.ResetsAt) {
		return u, false
	}
	u.Used = 0
	u.ResetsAt = now.Add(window)
	return u, true
}

package aggregate

// Health is the traffic-light status of a metric against its target
type Health string

const (
	HealthGood     Health = "good"
	HealthWarning  Health = "warning"
	HealthCritical Health = "critical"
)

// Classify grades current against target. warnFraction is the tolerated shortfall as a
// fraction of target (0.1 = 10%). For higher-is-better metrics: good at or above target,
// warning at or above target*(1-warnFraction), critical below. Lower-is-better mirrors it.
func Classify(current, target, warnFraction float64, higherIsBetter bool) Health {
	if higherIsBetter {
		switch {
		case current >= target:
			return HealthGood
		case current >= target*(1-warnFraction):
			return HealthWarning
		default:
			return HealthCritical
		}
	}
	switch {
	case current <= target:
		return HealthGood
	case current <= target*(1+warnFraction):
		return HealthWarning
	default:
		return HealthCritical
	}
}

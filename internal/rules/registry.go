package rules

// The two dispatch entry points each consume one of these ordered lists.
// The catalog is fixed at build time; seeding iterates the same lists to
// create the persisted rows.

var EventBasedRules = []Constructor{
	NewActivityWithPeakMoodRule,
	NewRelaxingActivityRule,
	NewPhysicalActivityPerWeekRule,
	NewHighMediaUsagePerDayRule,
	NewPositiveMoodChangeBetweenActivitiesRule,
	NewNegativeMoodChangeBetweenActivitiesRule,
}

var TimeBasedRules = []Constructor{
	NewLowMediaUsagePerDayRule,
	NewFourteenDayMoodAverageRule,
	NewFourteenDayMoodMaximumRule,
	NewUnsteadyFoodIntakeRule,
	NewDailyAverageMoodImprovingRule,
	NewPhysicalActivityPerWeekIncreasingRule,
}

// EventBasedTitles and TimeBasedTitles mirror the constructor lists for
// seeding and introspection.
var EventBasedTitles = []string{
	TitleActivityWithPeakMood,
	TitleRelaxingActivity,
	TitlePhysicalActivityPerWeek,
	TitleHighMediaUsagePerDay,
	TitlePositiveMoodChangeBetweenActivities,
	TitleNegativeMoodChangeBetweenActivities,
}

var TimeBasedTitles = []string{
	TitleLowMediaUsagePerDay,
	TitleFourteenDayMoodAverage,
	TitleFourteenDayMoodMaximum,
	TitleUnsteadyFoodIntake,
	TitleDailyAverageMoodImproving,
	TitlePhysicalActivityPerWeekIncreasing,
}

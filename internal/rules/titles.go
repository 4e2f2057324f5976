package rules

// Catalog titles, the unique keys joining detection logic to persisted
// Rule rows.
const (
	TitleActivityWithPeakMood                = "Activity With Peak Mood"
	TitleRelaxingActivity                    = "Relaxing Activity"
	TitlePhysicalActivityPerWeek             = "Physical Activity Per Week"
	TitleHighMediaUsagePerDay                = "High Media Usage Per Day"
	TitleLowMediaUsagePerDay                 = "Low Media Usage Per Day"
	TitleFourteenDayMoodAverage              = "14 Day Mood Average"
	TitleFourteenDayMoodMaximum              = "14 Day Mood Maximum"
	TitleUnsteadyFoodIntake                  = "Unsteady Food Intake"
	TitlePositiveMoodChangeBetweenActivities = "Positive Mood Change Between Activities"
	TitleNegativeMoodChangeBetweenActivities = "Negative Mood Change Between Activities"
	TitleDailyAverageMoodImproving           = "Daily Average Mood Improving"
	TitlePhysicalActivityPerWeekIncreasing   = "Physical Activity Per Week Increasing"
)

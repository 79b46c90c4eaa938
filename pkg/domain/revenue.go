package domain

// RevenuePeriod is the time window for revenue reports.
type RevenuePeriod string

const (
	PeriodLast7Days   RevenuePeriod = "LAST_7_DAYS"
	PeriodLast30Days  RevenuePeriod = "LAST_30_DAYS"
	PeriodLast90Days  RevenuePeriod = "LAST_90_DAYS"
	PeriodLast3Months RevenuePeriod = "LAST_3_MONTHS"
	PeriodLast6Months RevenuePeriod = "LAST_6_MONTHS"
	PeriodLastYear    RevenuePeriod = "LAST_YEAR"
	PeriodAllTime     RevenuePeriod = "ALL_TIME"
)

// MonthlyRevenue is one bucket of a revenue series.
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// TeacherRevenue summarizes a teacher's earnings.
type TeacherRevenue struct {
	TotalRevenue   float64          `json:"totalRevenue"`
	RevenueByMonth []MonthlyRevenue `json:"revenueByMonth"`
	TotalStudents  int              `json:"totalStudents"`
	TotalCourses   int              `json:"totalCourses"`
}

// AdminStats is the platform overview shown to admins.
type AdminStats struct {
	TotalUsers       int              `json:"totalUsers"`
	TotalCourses     int              `json:"totalCourses"`
	TotalEnrollments int              `json:"totalEnrollments"`
	TotalRevenue     float64          `json:"totalRevenue"`
	RevenueByMonth   []MonthlyRevenue `json:"revenueByMonth,omitempty"`
}

// RevenueReport is the admin revenue breakdown for a date range.
type RevenueReport struct {
	StartDate      string           `json:"startDate,omitempty"`
	EndDate        string           `json:"endDate,omitempty"`
	TotalRevenue   float64          `json:"totalRevenue"`
	RevenueByMonth []MonthlyRevenue `json:"revenueByMonth,omitempty"`
}

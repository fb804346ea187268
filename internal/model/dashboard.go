package model

// Stats is the headline block of the dashboard.
type Stats struct {
	TotalStudents   int     `json:"total_students"`
	TotalLessons    int     `json:"total_lessons"`
	UnpaidLessons   int     `json:"unpaid_lessons"`
	UnpaidAmount    float64 `json:"unpaid_amount"`
	MonthlyEarnings float64 `json:"monthly_earnings"` // оплаченные занятия текущего месяца
	MonthlyLessons  int     `json:"monthly_lessons"`
}

// StudentDebt is the unpaid total of one student.
type StudentDebt struct {
	StudentID    int64   `json:"id"`
	Name         string  `json:"name"`
	UnpaidCount  int     `json:"unpaid_count"`
	UnpaidAmount float64 `json:"unpaid_amount"`
}

// MonthSummary aggregates lessons of one calendar month, Month is "YYYY-MM".
type MonthSummary struct {
	Month        string  `json:"month"`
	LessonCount  int     `json:"lesson_count"`
	PaidAmount   float64 `json:"paid_amount"`
	UnpaidAmount float64 `json:"unpaid_amount"`
	TotalAmount  float64 `json:"total_amount"`
}

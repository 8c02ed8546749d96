package model

// OwnerContactCounts is one aggregate row of the contact table grouped by owner.
type OwnerContactCounts struct {
	OwnerID     uint64 `db:"owner_id"`
	CalledToday int64  `db:"called_today"`
	Rejected    int64  `db:"rejected"`
	Leads       int64  `db:"leads"`
	Later       int64  `db:"later"`
}

type StatsCounts struct {
	Called   int64 `json:"called"`
	Rejected int64 `json:"rejected"`
	Leads    int64 `json:"leads"`
	Later    int64 `json:"later"`
}

// EmployeeStats is one row of the admin dashboard.
type EmployeeStats struct {
	ID    uint64      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Stats StatsCounts `json:"stats"`
}

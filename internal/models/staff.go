package models

// StaffUser is a dashboard operator. Superusers may mutate sessions and
// arena configuration; any active staff RFID tag can release a kiosk from
// its result screen.
type StaffUser struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Password    string `json:"-"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	IsActive    bool   `json:"is_active"`
	RFIDTag     string `json:"rfid_tag"`
}

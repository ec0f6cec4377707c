package models

import "time"

// Controller is a physical checkpoint kiosk with its own network identity.
// The usage/temperature fields are free-form strings reported by the hardware
// itself; the server stores and serves them without interpretation.
type Controller struct {
	ID                 int       `json:"id"`
	Name               string    `json:"name"`
	IPAddress          string    `json:"ip_address"`
	CPUUsage           string    `json:"cpu_usage"`
	StorageUsage       string    `json:"storage_usage"`
	CPUTemperature     string    `json:"cpu_temperature"`
	RAMUsage           string    `json:"ram_usage"`
	SystemUptime       string    `json:"system_uptime"`
	VoltagePowerStatus string    `json:"voltage_power_status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

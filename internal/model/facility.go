package model

import "time"

const (
	ResourceTypeEquipment      = "equipment"
	ResourceTypeVehicle        = "vehicle"
	ResourceTypeSecurityDevice = "security_device"
)

func ValidResourceType(t string) bool {
	switch t {
	case ResourceTypeEquipment, ResourceTypeVehicle, ResourceTypeSecurityDevice:
		return true
	}
	return false
}

type Resource struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RestrictedArea struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	SecurityLevel int       `json:"security_level"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const (
	AccessStatusGranted = "granted"
	AccessStatusDenied  = "denied"
)

func ValidAccessStatus(s string) bool {
	return s == AccessStatusGranted || s == AccessStatusDenied
}

type AccessLog struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	AreaID     string    `json:"area_id"`
	Status     string    `json:"status"`
	AccessTime time.Time `json:"access_time"`
}

type DashboardStats struct {
	TotalUsers      int `json:"total_users"`
	ActiveUsers     int `json:"active_users"`
	TotalResources  int `json:"total_resources"`
	TotalAreas      int `json:"total_areas"`
	TotalAccessLogs int `json:"total_access_logs"`
	AccessGranted   int `json:"access_granted"`
	AccessDenied    int `json:"access_denied"`
}

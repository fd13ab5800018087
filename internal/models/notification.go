package models

// ToastLevel controls how a transient notification is styled
type ToastLevel string

const (
	ToastInfo    ToastLevel = "info"
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
)

// Toast is a transient notification shown to the user
type Toast struct {
	Level ToastLevel
	Text  string
}

// Destination is a page the user can be sent to
type Destination string

const (
	DestinationUserDashboard  Destination = "user-dashboard.html"
	DestinationAdminDashboard Destination = "admin-dashboard.html"
	DestinationLogin          Destination = "login.html"
)

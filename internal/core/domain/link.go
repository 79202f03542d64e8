package domain

import "time"

// DeviceInfo identifies the till hardware during linking and heartbeats.
type DeviceInfo struct {
	Platform   string `json:"platform"   bson:"platform"`
	DeviceName string `json:"deviceName" bson:"deviceName" validate:"required"`
}

type LinkRequest struct {
	LinkCode   string     `json:"linkCode"   validate:"linkcode"`
	DeviceInfo DeviceInfo `json:"deviceInfo"`
}

// InitialData is the snapshot a till receives when it links.
type InitialData struct {
	Products   []Product  `json:"products"   bson:"products"`
	Categories []Category `json:"categories" bson:"categories"`
	Users      []User     `json:"users"      bson:"users"`
	Roles      []Role     `json:"roles"      bson:"roles"`
}

type LinkResponse struct {
	Success     bool        `json:"success"`
	TillID      string      `json:"tillId,omitempty"`
	InitialData InitialData `json:"initialData"`
	Error       string      `json:"error,omitempty"`
}

// TillSnapshot is what a linked till keeps locally.
type TillSnapshot struct {
	TillID      string      `bson:"_id"`
	DeviceInfo  DeviceInfo  `bson:"deviceInfo"`
	LinkedAt    time.Time   `bson:"linkedAt"`
	InitialData InitialData `bson:"initialData"`
}

type Heartbeat struct {
	TillID     string     `json:"tillId"`
	DeviceInfo DeviceInfo `json:"deviceInfo"`
}

type LinkState int

const (
	LinkIdle LinkState = iota
	LinkLoading
	LinkSuccess
	LinkError
)

func (s LinkState) String() string {
	switch s {
	case LinkLoading:
		return "loading"
	case LinkSuccess:
		return "success"
	case LinkError:
		return "error"
	}
	return "idle"
}

// LinkStatus is a point-in-time view of the linking flow.
type LinkStatus struct {
	State   LinkState
	TillID  string
	Message string
}

// Display is the single line a till shows for the current state.
func (s LinkStatus) Display() string {
	switch s.State {
	case LinkLoading:
		return "Contacting server…"
	case LinkSuccess:
		return "Linked! ID: " + s.TillID
	case LinkError:
		return s.Message
	}
	return ""
}

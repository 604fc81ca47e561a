package model

import (
	"fmt"
	"time"
)

// ClientLocation is the map-screen projection of a client: last known
// coordinates plus the fields shown on the pin callout.
type ClientLocation struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	IsLocked       bool       `json:"is_locked"`
	LastUpdate     *time.Time `json:"last_location_update,omitempty"`
	OutstandingBal float64    `json:"outstanding_balance"`
}

// MapURL is the deep link handed to an external map application.
func (l *ClientLocation) MapURL() string {
	return fmt.Sprintf("https://maps.google.com/?q=%f,%f", l.Latitude, l.Longitude)
}

// models/service_type.go
package models

// Service is one bookable offering from the salon catalog.
type Service struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`         // e.g., "Boys’ Haircut"
	Duration int    `bson:"duration" json:"duration"` // in minutes
	Active   bool   `bson:"active" json:"active"`
}

package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// JWTSecret verifies bearer tokens issued by the identity provider.
	JWTSecret []byte

	// Assistant endpoints
	AssistantHandler gin.HandlerFunc
	FAQHandler       gin.HandlerFunc

	// Catalog and availability endpoints
	ListServicesHandler gin.HandlerFunc
	AvailabilityHandler gin.HandlerFunc

	// Booking endpoints
	BookHandler          gin.HandlerFunc
	MyBookingsHandler    gin.HandlerFunc
	CancelBookingHandler gin.HandlerFunc

	// Admin endpoints
	AdminListBookingsHandler  gin.HandlerFunc
	AdminCancelBookingHandler gin.HandlerFunc
}

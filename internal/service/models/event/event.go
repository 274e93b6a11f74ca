package event

import "strconv"

// Event names as they appear on the wire. Clients subscribed to a group
// receive the event name in the message Type field.
const (
	NewOrder        = "newOrder"
	OrderInProgress = "orderInProgress"
	OrderAccepted   = "orderAccepted"
)

// GroupDrivers is the shared pool every driver connection joins.
const GroupDrivers = "drivers"

// RestaurantGroup returns the group key for a single restaurant.
func RestaurantGroup(restaurantID int64) string {
	return "restaurant:" + strconv.FormatInt(restaurantID, 10)
}

// OrderAcceptedPayload is the payload of the orderAccepted event.
type OrderAcceptedPayload struct {
	OrderID int64 `json:"order_id"`
}

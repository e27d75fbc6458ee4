package api

// Payment method labels as submitted to the backend.
const (
	PaymentMethodCash   = "Cash on Delivery"
	PaymentMethodOnline = "Online Payment"
)

// Order is the submitted order snapshot. Once built it is immutable and
// ownership passes to the backend; the client keeps no order state after
// submission. Monetary fields are 2-decimal strings, rounded once at this
// boundary.
type Order struct {
	UserID        int64       `json:"user_id"`
	Name          string      `json:"name"`
	Mobile        string      `json:"mobile"`
	Address       string      `json:"address"`
	PaymentMethod string      `json:"payment_method"`
	Subtotal      string      `json:"subtotal"`
	GST           string      `json:"gst"`
	Total         string      `json:"total"`
	Items         []OrderItem `json:"items"`
}

// OrderItem is one line of the order snapshot.
type OrderItem struct {
	FoodID    int64   `json:"food_id"`
	Name      string  `json:"name"`
	HotelName string  `json:"hotel_name"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
}

// FoodResult is one hit from the catalog search endpoint.
type FoodResult struct {
	FoodID    int64   `json:"food_id"`
	HotelID   int64   `json:"hotel_id"`
	HotelName string  `json:"hotel_name"`
	Location  string  `json:"location"`
	FoodName  string  `json:"food_name"`
	FoodType  string  `json:"food_type"`
	Price     float64 `json:"price"`
	Desc      string  `json:"description"`
}

package domain

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking mirrors a server-side booking record. Timestamps stay in the
// server's wire format; the client never interprets them beyond display.
type Booking struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId"`
	HotelID         string        `json:"hotelId"`
	RoomID          string        `json:"roomId"`
	CheckIn         string        `json:"checkIn"`
	CheckOut        string        `json:"checkOut"`
	Guests          int           `json:"guests"`
	TotalAmount     float64       `json:"totalAmount"`
	Status          BookingStatus `json:"status"`
	SpecialRequests *string       `json:"specialRequests"`
	CreatedAt       string        `json:"createdAt"`
	UpdatedAt       string        `json:"updatedAt"`
}

// Upcoming reports whether the booking still lies ahead of the guest.
func (b Booking) Upcoming() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// Past reports whether the booking reached a terminal state.
func (b Booking) Past() bool {
	return b.Status == BookingCompleted || b.Status == BookingCancelled
}

type PriceBreakdown struct {
	RoomRate   float64 `json:"roomRate"`
	Subtotal   float64 `json:"subtotal"`
	Taxes      float64 `json:"taxes"`
	ServiceFee float64 `json:"serviceFee"`
	Total      float64 `json:"total"`
}

type Addon struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// RefundInfo appears once a cancellation has been processed server-side.
// Read-only on the client.
type RefundInfo struct {
	Status                    string  `json:"status"` // pending|processing|completed|rejected
	OriginalAmount            float64 `json:"originalAmount"`
	CancellationFeeAmount     float64 `json:"cancellationFeeAmount"`
	CancellationFeePercentage float64 `json:"cancellationFeePercentage"`
	RefundAmount              float64 `json:"refundAmount"`
	RefundMethod              string  `json:"refundMethod"`
	ExpectedProcessingDays    int     `json:"expectedProcessingDays"`
	RefundReason              *string `json:"refundReason"`
	RejectionReason           *string `json:"rejectionReason"`
	CreatedAt                 string  `json:"createdAt"`
	ProcessedAt               *string `json:"processedAt"`
}

// BookingDetail is the richer variant returned by /bookings/{id}/details.
type BookingDetail struct {
	Booking
	HotelName      string          `json:"hotelName"`
	Nights         int             `json:"nights"`
	BookingType    string          `json:"bookingType"`
	PaymentStatus  string          `json:"paymentStatus"`
	PriceBreakdown *PriceBreakdown `json:"priceBreakdown"`
	Addons         []Addon         `json:"addons"`
	RefundInfo     *RefundInfo     `json:"refundInfo"`
}

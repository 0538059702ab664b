package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"staysync/internal/domain"
)

// DetailService covers the booking-details screen: the rich detail record,
// the backend-mediated payment flow, guest-detail edits and review
// submission. These are request/response calls, not synchronized stores;
// a failure leaves whatever the caller already shows untouched.
type DetailService struct {
	api domain.APIClient
}

func NewDetailService(api domain.APIClient) *DetailService {
	return &DetailService{api: api}
}

// Booking loads the full detail variant, including the price breakdown,
// add-ons and refund info once a cancellation has been processed.
func (s *DetailService) Booking(ctx context.Context, id string) (domain.BookingDetail, error) {
	env, err := s.api.Get(ctx, "/bookings/"+id+"/details", nil)
	if err != nil {
		return domain.BookingDetail{}, err
	}
	if !env.Success {
		return domain.BookingDetail{}, errors.New(orMsg(env.Error, "Failed to fetch booking details"))
	}
	var data struct {
		Booking domain.BookingDetail `json:"booking"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return domain.BookingDetail{}, fmt.Errorf("decode booking details: %w", err)
	}
	return data.Booking, nil
}

type GuestDetails struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Guests int    `json:"guests,omitempty"`
}

func (s *DetailService) UpdateGuestDetails(ctx context.Context, bookingID string, g GuestDetails) error {
	env, err := s.api.Put(ctx, "/bookings/"+bookingID+"/guest-details", g)
	if err != nil {
		return err
	}
	if !env.Success {
		return errors.New(orMsg(env.Error, "Failed to update guest details"))
	}
	return nil
}

// PaymentOrder is what the backend hands back for the gateway handoff.
// The gateway SDK itself lives outside this module.
type PaymentOrder struct {
	OrderID  string  `json:"orderId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type PaymentOrderRequest struct {
	BookingID string  `json:"bookingId"`
	Amount    float64 `json:"amount"`
}

func (s *DetailService) CreatePaymentOrder(ctx context.Context, req PaymentOrderRequest) (PaymentOrder, error) {
	env, err := s.api.Post(ctx, "/payments/orders", req)
	if err != nil {
		return PaymentOrder{}, err
	}
	if !env.Success {
		return PaymentOrder{}, errors.New(orMsg(env.Error, "Failed to create payment order"))
	}
	var order PaymentOrder
	if err := json.Unmarshal(env.Data, &order); err != nil {
		return PaymentOrder{}, fmt.Errorf("decode payment order: %w", err)
	}
	return order, nil
}

// PaymentVerification carries the gateway's signature back for server-side
// verification; the client never judges a payment on its own.
type PaymentVerification struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

func (s *DetailService) VerifyPayment(ctx context.Context, v PaymentVerification) error {
	env, err := s.api.Post(ctx, "/payments/verify", v)
	if err != nil {
		return err
	}
	if !env.Success {
		return errors.New(orMsg(env.Error, "Payment verification failed"))
	}
	return nil
}

type ReviewSubmission struct {
	BookingID string  `json:"bookingId"`
	HotelID   string  `json:"hotelId"`
	Rating    float64 `json:"rating"`
	Comment   string  `json:"comment"`
}

func (s *DetailService) SubmitReview(ctx context.Context, r ReviewSubmission) error {
	env, err := s.api.Post(ctx, "/reviews", r)
	if err != nil {
		return err
	}
	if !env.Success {
		return errors.New(orMsg(env.Error, "Failed to submit review"))
	}
	return nil
}

package app_test

import (
	"context"
	"net/url"
	"testing"

	"staysync/internal/app"
	"staysync/internal/domain"
)

func TestBookingDetailDecodesFullRecord(t *testing.T) {
	ctx := context.Background()
	body := `{"booking":{
		"id":"B1","hotelId":"h1","status":"cancelled","totalAmount":4500,
		"hotelName":"Test Hotel","nights":3,"bookingType":"daily","paymentStatus":"refunded",
		"priceBreakdown":{"roomRate":1500,"subtotal":4500,"taxes":540,"serviceFee":100,"total":5140},
		"addons":[{"name":"Breakfast","price":250,"quantity":3}],
		"refundInfo":{"status":"completed","originalAmount":5140,"cancellationFeeAmount":514,
			"cancellationFeePercentage":10,"refundAmount":4626,"refundMethod":"source",
			"expectedProcessingDays":5,"createdAt":"2026-08-01T10:00:00Z"}
	}}`
	api := &fakeAPI{handler: func(method, path string, q url.Values, b any) (domain.Envelope, error) {
		if path != "/bookings/B1/details" {
			t.Errorf("path = %q", path)
		}
		return envOK(body), nil
	}}
	s := app.NewDetailService(api)

	d, err := s.Booking(ctx, "B1")
	if err != nil {
		t.Fatalf("booking detail: %v", err)
	}
	if d.ID != "B1" || d.HotelName != "Test Hotel" || d.Nights != 3 {
		t.Fatalf("detail = %+v", d)
	}
	if d.PriceBreakdown == nil || d.PriceBreakdown.Total != 5140 {
		t.Fatalf("price breakdown = %+v", d.PriceBreakdown)
	}
	if len(d.Addons) != 1 || d.Addons[0].Name != "Breakfast" {
		t.Fatalf("addons = %+v", d.Addons)
	}
	if d.RefundInfo == nil || d.RefundInfo.RefundAmount != 4626 {
		t.Fatalf("refund info = %+v", d.RefundInfo)
	}
}

func TestCreatePaymentOrder(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{handler: func(method, path string, q url.Values, body any) (domain.Envelope, error) {
		if path != "/payments/orders" || method != "POST" {
			t.Errorf("request = %s %s", method, path)
		}
		return envOK(`{"orderId":"ord_1","amount":5140,"currency":"INR"}`), nil
	}}
	s := app.NewDetailService(api)

	order, err := s.CreatePaymentOrder(ctx, app.PaymentOrderRequest{BookingID: "B1", Amount: 5140})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.OrderID != "ord_1" || order.Amount != 5140 || order.Currency != "INR" {
		t.Fatalf("order = %+v", order)
	}
}

func TestVerifyPaymentSurfacesServerMessage(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{handler: func(string, string, url.Values, any) (domain.Envelope, error) {
		return envFail("signature mismatch"), nil
	}}
	s := app.NewDetailService(api)

	err := s.VerifyPayment(ctx, app.PaymentVerification{OrderID: "ord_1", PaymentID: "pay_1", Signature: "sig"})
	if err == nil || err.Error() != "signature mismatch" {
		t.Fatalf("err = %v", err)
	}
}

func TestSubmitReview(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{handler: func(method, path string, q url.Values, body any) (domain.Envelope, error) {
		if path != "/reviews" {
			t.Errorf("path = %q", path)
		}
		r, ok := body.(app.ReviewSubmission)
		if !ok || r.Rating != 4.5 {
			t.Errorf("body = %+v", body)
		}
		return envOK(`{}`), nil
	}}
	s := app.NewDetailService(api)

	if err := s.SubmitReview(ctx, app.ReviewSubmission{BookingID: "B1", HotelID: "h1", Rating: 4.5, Comment: "Great stay"}); err != nil {
		t.Fatalf("submit review: %v", err)
	}
}

func TestUpdateGuestDetails(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{handler: func(method, path string, q url.Values, body any) (domain.Envelope, error) {
		if method != "PUT" || path != "/bookings/B1/guest-details" {
			t.Errorf("request = %s %s", method, path)
		}
		return envOK(`{}`), nil
	}}
	s := app.NewDetailService(api)

	err := s.UpdateGuestDetails(ctx, "B1", app.GuestDetails{Name: "A Guest", Email: "guest@example.com", Phone: "+911234567890"})
	if err != nil {
		t.Fatalf("update guest details: %v", err)
	}
}

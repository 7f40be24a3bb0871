package boardingpass_test

import (
	"bytes"
	"testing"
	"time"

	"skybook/internal/bookings/boardingpass"
	"skybook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func sampleBookingAndFlight() (models.Booking, models.Flight) {
	booking := models.Booking{
		ID:               "booking-1",
		BookingReference: "BK17568000001234",
		NumberOfSeats:    2,
		Status:           models.BookingConfirmed,
	}
	flight := models.Flight{
		ID:            "flight-1",
		FlightNumber:  "SB101",
		Origin:        "Amsterdam",
		Destination:   "Lisbon",
		DepartureTime: time.Date(2026, 9, 10, 8, 30, 0, 0, time.UTC),
	}
	return booking, flight
}

func TestGeneratePNG(t *testing.T) {
	gen := boardingpass.NewGenerator("test-secret")
	booking, flight := sampleBookingAndFlight()

	png, err := gen.GeneratePNG(booking, flight)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.True(t, bytes.HasPrefix(png, pngHeader))
}

func TestGeneratePNGAcceptsAnySecretLength(t *testing.T) {
	// Secrets are hashed to the AES key size, so length does not matter.
	booking, flight := sampleBookingAndFlight()

	for _, secret := range []string{"x", "a-much-longer-secret-than-thirty-two-bytes-requires"} {
		gen := boardingpass.NewGenerator(secret)
		png, err := gen.GeneratePNG(booking, flight)
		require.NoError(t, err)
		assert.NotEmpty(t, png)
	}
}

func TestDistinctBookingsProduceDistinctPasses(t *testing.T) {
	gen := boardingpass.NewGenerator("test-secret")
	booking, flight := sampleBookingAndFlight()

	first, err := gen.GeneratePNG(booking, flight)
	require.NoError(t, err)

	booking.BookingReference = "BK17568000005678"
	second, err := gen.GeneratePNG(booking, flight)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

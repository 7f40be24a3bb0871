package boardingpass

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"time"

	"skybook/internal/models"

	"github.com/skip2/go-qrcode"
)

// Generator renders a confirmed booking as an encrypted QR boarding pass.
// Gate scanners hold the same secret and decrypt offline.
type Generator struct {
	secret []byte
}

func NewGenerator(secret string) *Generator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &Generator{secret: hashed[:]}
}

type passPayload struct {
	BookingReference string    `json:"booking_reference"`
	FlightNumber     string    `json:"flight_number"`
	Origin           string    `json:"origin"`
	Destination      string    `json:"destination"`
	DepartureTime    time.Time `json:"departure_time"`
	NumberOfSeats    int       `json:"number_of_seats"`
	IssuedAt         time.Time `json:"issued_at"`
}

// GeneratePNG returns a PNG-encoded QR for a booking and its flight.
func (g *Generator) GeneratePNG(booking models.Booking, flight models.Flight) ([]byte, error) {
	payload := passPayload{
		BookingReference: booking.BookingReference,
		FlightNumber:     flight.FlightNumber,
		Origin:           flight.Origin,
		Destination:      flight.Destination,
		DepartureTime:    flight.DepartureTime,
		NumberOfSeats:    booking.NumberOfSeats,
		IssuedAt:         time.Now().UTC(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	encrypted, err := encryptAES(data, g.secret)
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(encrypted, qrcode.Medium, 256)
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]

	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

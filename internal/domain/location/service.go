package location

import "context"

type LocationService interface {
	// Create adds an office location. Name falls back to "Map Selected Location".
	Create(ctx context.Context, req CreateLocationRequest) (LocationResponse, error)

	// GetByID returns a single location.
	GetByID(ctx context.Context, id string) (LocationResponse, error)

	// List returns every location.
	List(ctx context.Context) ([]LocationResponse, error)

	// Update changes a location and notifies employees assigned to it.
	Update(ctx context.Context, id string, req UpdateLocationRequest) (LocationResponse, error)

	// Delete removes a location and unassigns its employees.
	Delete(ctx context.Context, id string) (DeleteLocationResponse, error)

	// QRCode renders a PNG QR code holding the encrypted location id.
	QRCode(ctx context.Context, id string, size int) ([]byte, error)

	// DecodeQR decrypts a scanned payload and resolves it to a location.
	DecodeQR(ctx context.Context, req DecodeQRRequest) (LocationResponse, error)
}

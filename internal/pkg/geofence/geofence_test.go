package geofence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	office := &Coordinate{Latitude: 12.9716, Longitude: 77.5946}

	t.Run("coincident points are inside", func(t *testing.T) {
		result, err := Validate(&Coordinate{Latitude: 12.9716, Longitude: 77.5946}, office, 100)
		require.NoError(t, err)
		assert.True(t, result.WithinRadius)
		assert.InDelta(t, 0, result.DistanceMeters, 1e-6)
	})

	t.Run("point about 1.1km north is outside", func(t *testing.T) {
		result, err := Validate(&Coordinate{Latitude: 12.9816, Longitude: 77.5946}, office, 100)
		require.NoError(t, err)
		assert.False(t, result.WithinRadius)
		assert.InDelta(t, 1112, result.DistanceMeters, 5)
	})

	t.Run("point just inside radius", func(t *testing.T) {
		// ~55m north
		result, err := Validate(&Coordinate{Latitude: 12.9721, Longitude: 77.5946}, office, 100)
		require.NoError(t, err)
		assert.True(t, result.WithinRadius)
		assert.Less(t, result.DistanceMeters, 100.0)
	})

	t.Run("missing observed coordinate fails closed", func(t *testing.T) {
		_, err := Validate(nil, office, 100)
		assert.ErrorIs(t, err, ErrCoordinateUnavailable)
	})

	t.Run("missing target coordinate fails closed", func(t *testing.T) {
		_, err := Validate(office, nil, 100)
		assert.ErrorIs(t, err, ErrCoordinateUnavailable)
	})

	t.Run("non positive radius", func(t *testing.T) {
		for _, radius := range []float64{0, -10} {
			_, err := Validate(office, office, radius)
			assert.ErrorIs(t, err, ErrInvalidRadius)
		}
	})

	t.Run("out of range coordinate", func(t *testing.T) {
		_, err := Validate(&Coordinate{Latitude: 91, Longitude: 0}, office, 100)
		assert.ErrorIs(t, err, ErrInvalidCoordinate)
	})
}

func TestDistanceIsSymmetric(t *testing.T) {
	a := Coordinate{Latitude: -6.2, Longitude: 106.816666}
	b := Coordinate{Latitude: -6.175392, Longitude: 106.827153}

	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
	assert.Greater(t, Distance(a, b), 0.0)
}

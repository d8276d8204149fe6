package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressAvailability(t *testing.T) {
	h := NewAuthHandler(&fakeUserRepo{available: true}, nil)

	c, rec := newTestContext(t, http.MethodGet, "/auth/address-availability?address=@Derek_Ink", nil)

	require.NoError(t, h.AddressAvailability(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	// The handle is normalized before the lookup.
	assert.Contains(t, rec.Body.String(), `"address":"derek_ink"`)
	assert.Contains(t, rec.Body.String(), `"available":true`)
}

func TestAddressAvailabilityTakenHandle(t *testing.T) {
	h := NewAuthHandler(&fakeUserRepo{available: false}, nil)

	c, rec := newTestContext(t, http.MethodGet, "/auth/address-availability?address=claimed", nil)

	require.NoError(t, h.AddressAvailability(c))
	assert.Contains(t, rec.Body.String(), `"available":false`)
}

func TestAddressAvailabilityRejectsInvalidHandles(t *testing.T) {
	h := NewAuthHandler(&fakeUserRepo{available: true}, nil)

	for _, handle := range []string{"ab", "no spaces", "42_main_st", ""} {
		c, _ := newTestContext(t, http.MethodGet, "/auth/address-availability?address="+url.QueryEscape(handle), nil)

		err := h.AddressAvailability(c)
		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err), handle)
	}
}

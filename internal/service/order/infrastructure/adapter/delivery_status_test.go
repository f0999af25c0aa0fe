package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tavolo/internal/service/order/domain"
)

func TestToExternalStatus(t *testing.T) {
	cases := map[domain.Status]string{
		domain.StatusPending:        "Pending",
		domain.StatusAccepted:       "Accepted",
		domain.StatusPreparing:      "Preparing",
		domain.StatusGivenToCourier: "Given_To_Courier",
		domain.StatusOnTransit:      "On_Transit",
		domain.StatusDelivered:      "Delivered",
		domain.StatusRejected:       "Rejected",
	}
	for internal, external := range cases {
		assert.Equal(t, external, ToExternalStatus(internal))
	}
}

func TestStatusRoundTrip(t *testing.T) {
	for _, s := range domain.AllStatuses() {
		require.Equal(t, s, FromExternalStatus(ToExternalStatus(s)), "round-trip broke for %q", s)
	}
}

func TestFromExternalStatus_OnTransitCaseInsensitive(t *testing.T) {
	for _, raw := range []string{"On_Transit", "ON_TRANSIT", "on_transit", "oN_tRaNsIt"} {
		assert.Equal(t, domain.StatusOnTransit, FromExternalStatus(raw))
	}
}

func TestFromExternalStatus_Total(t *testing.T) {
	// 任何垃圾输入都必须有答案，而且是 rejected。
	for _, raw := range []string{"", "Cancelled", "DELIVERY_FAILED", "42", "given_to_nobody"} {
		assert.Equal(t, domain.StatusRejected, FromExternalStatus(raw))
	}
}

func TestFromExternalStatus_LowercaseVariants(t *testing.T) {
	assert.Equal(t, domain.StatusGivenToCourier, FromExternalStatus("given_to_courier"))
	assert.Equal(t, domain.StatusDelivered, FromExternalStatus("DELIVERED"))
}

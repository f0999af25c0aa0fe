package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"tavolo/internal/pkg/httpclient"
	"tavolo/internal/service/order/domain"
	"tavolo/internal/service/order/domain/port"
)

// HTTPDeliveryDispatcher 实现了 port.DeliveryDispatcher 接口。
// 对接外部配送系统的 REST 接口，并在边界上完成状态词汇的互译：
// 外部系统讲 Pascal_Case，出了这个适配器只有内部词汇。
type HTTPDeliveryDispatcher struct {
	client  *httpclient.Client
	baseURL string
}

func NewHTTPDeliveryDispatcher(client *httpclient.Client, baseURL string) *HTTPDeliveryDispatcher {
	return &HTTPDeliveryDispatcher{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

type dispatchPayload struct {
	CustomerID int64   `json:"customer_id"`
	VendorID   int64   `json:"vendor_id"`
	OrderID    int64   `json:"order_id"`
	DestLat    float64 `json:"dest_lat"`
	DestLong   float64 `json:"dest_long"`
}

func (d *HTTPDeliveryDispatcher) Dispatch(ctx context.Context, req port.DeliveryRequest) error {
	query := url.Values{"auth": []string{strconv.FormatInt(req.CustomerID, 10)}}
	payload := dispatchPayload{
		CustomerID: req.CustomerID,
		VendorID:   req.VendorID,
		OrderID:    req.OrderID,
		DestLat:    req.Destination.Lat,
		DestLong:   req.Destination.Long,
	}

	resp, err := d.client.Do(ctx, http.MethodPost, d.baseURL+"/delivery", query, payload)
	if err != nil {
		return errors.Wrap(err, "dispatch delivery")
	}
	if !resp.Success() {
		return errors.Errorf("delivery system refused dispatch: http %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func (d *HTTPDeliveryDispatcher) FetchStatus(ctx context.Context, orderID, customerID int64) (domain.Status, error) {
	query := url.Values{"auth": []string{strconv.FormatInt(customerID, 10)}}
	statusURL := fmt.Sprintf("%s/delivery/order/%d/status", d.baseURL, orderID)

	resp, err := d.client.Do(ctx, http.MethodGet, statusURL, query, nil)
	if err != nil {
		return "", errors.Wrap(err, "fetch delivery status")
	}
	if !resp.Success() {
		return "", errors.Errorf("delivery status unavailable: http %d: %s", resp.StatusCode, resp.Body)
	}
	return FromExternalStatus(strings.TrimSpace(resp.Body)), nil
}

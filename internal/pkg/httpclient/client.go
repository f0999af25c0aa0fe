package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"tavolo/internal/pkg/nacos"
)

// Client 是一个可追踪的、可注入的 HTTP 客户端。
// 挂上 Registry 之后可以按服务名调用，否则按完整 URL 直连。
type Client struct {
	Tracer     trace.Tracer
	HTTPClient *http.Client
	Registry   *nacos.Client
}

// Response 把下游的应答收敛为 成功/失败 信号加可选的响应体。
type Response struct {
	StatusCode int
	Body       string
}

// Success 判断应答是否为成功类（2xx）。
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// NewClient 创建一个新的客户端实例。
func NewClient(tracer trace.Tracer) *Client {
	// 不设置全局 Timeout，完全受控于每次请求传入的 context
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
	}
	return &Client{
		Tracer:     tracer,
		HTTPClient: httpClient,
	}
}

// WithRegistry 挂载服务注册中心，启用按服务名寻址。
func (c *Client) WithRegistry(registry *nacos.Client) *Client {
	c.Registry = registry
	return c
}

// ServiceURL 通过注册中心把服务名解析为 "http://ip:port"。
func (c *Client) ServiceURL(serviceName string) (string, error) {
	if c.Registry == nil {
		return "", fmt.Errorf("no registry configured, cannot resolve service '%s'", serviceName)
	}
	ip, port, err := c.Registry.DiscoverServiceInstance(serviceName)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("http://%s:%d", ip, port), nil
}

// Do 发起一次带追踪的 HTTP 调用。
// query 会拼到 URL 上；body 非 nil 时按 JSON 编码。
// 只有传输层失败才返回 error，下游返回的任何状态码都体现在 Response 里，由调用方裁决。
func (c *Client) Do(ctx context.Context, method, rawURL string, query url.Values, body interface{}) (*Response, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	spanName := fmt.Sprintf("call-%s", strings.Split(parsedURL.Host, ":")[0])

	ctx, span := c.Tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	downstreamURL := *parsedURL
	q := downstreamURL.Query()
	for key, values := range query {
		for _, value := range values {
			q.Add(key, value)
		}
	}
	downstreamURL.RawQuery = q.Encode()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, downstreamURL.String(), reqBody)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	span.SetAttributes(
		attribute.String("http.url", downstreamURL.String()),
		attribute.String("http.method", method),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, resp.Status)
	}

	return &Response{StatusCode: resp.StatusCode, Body: string(respBody)}, nil
}

// CallService 按服务名调用：先经注册中心解析，再走 Do。
func (c *Client) CallService(ctx context.Context, serviceName, path string, query url.Values) (*Response, error) {
	base, err := c.ServiceURL(serviceName)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, http.MethodPost, base+path, query, nil)
}

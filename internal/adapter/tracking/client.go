package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/cherrytrack/internal/domain/errors"
	"github.com/polkiloo/cherrytrack/internal/domain/model"
)

const noDataMessage = "该快递单号暂无物流信息，可能是刚发货尚未录入系统。建议明日再查询，或联系快递公司确认单号。"

// Client queries courier progress for one tracking number.
type Client interface {
	Query(ctx context.Context, trackingNumber, phoneSuffix string) (*model.TrackingResult, error)
}

// Credentials identify the account at the tracking provider.
type Credentials struct {
	Customer string
	Key      string
}

// Options tune the provider request.
type Options struct {
	Endpoint    string
	CarrierCode string
	CarrierName string
	Timeout     time.Duration
}

// Kuaidi100Client implements Client against the kuaidi100 real-time query API.
type Kuaidi100Client struct {
	endpoint    *url.URL
	creds       Credentials
	carrierCode string
	carrierName string
	httpClient  *http.Client
	logger      *slog.Logger
}

// response mirrors the provider's JSON reply. Success and failure share it.
type response struct {
	Message    string      `json:"message"`
	Status     flexString  `json:"status"`
	ReturnCode flexString  `json:"returnCode"`
	State      flexString  `json:"state"`
	Number     string      `json:"nu"`
	Data       []traceItem `json:"data"`
}

type traceItem struct {
	Time    string `json:"time"`
	Context string `json:"context"`
}

// flexString accepts JSON strings and numbers; the provider is not consistent.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if string(b) == "null" {
		*f = ""
		return nil
	}
	*f = flexString(b)
	return nil
}

// NewKuaidi100Client validates settings and builds a client.
func NewKuaidi100Client(creds Credentials, opts Options, logger *slog.Logger) (*Kuaidi100Client, error) {
	parsed, err := url.Parse(opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse tracking endpoint: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("tracking endpoint must be absolute")
	}
	if creds.Customer == "" || creds.Key == "" {
		return nil, fmt.Errorf("tracking credentials must be provided")
	}
	if opts.CarrierCode == "" {
		return nil, fmt.Errorf("carrier code must be provided")
	}
	timeout := opts.Timeout
	if timeout < 0 {
		timeout = 0
	}
	return &Kuaidi100Client{
		endpoint:    parsed,
		creds:       creds,
		carrierCode: opts.CarrierCode,
		carrierName: opts.CarrierName,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger.With("component", "tracking_client"),
	}, nil
}

// Query asks the provider for the trace of trackingNumber. phoneSuffix is the
// last four digits of the recipient phone, required by some carriers.
func (c *Kuaidi100Client) Query(ctx context.Context, trackingNumber, phoneSuffix string) (*model.TrackingResult, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, domainErrors.Validation("请提供快递单号")
	}

	param, err := EncodeParam(c.carrierCode, trackingNumber, phoneSuffix)
	if err != nil {
		return nil, err
	}
	form := url.Values{
		"customer": {c.creds.Customer},
		"sign":     {Sign(param, c.creds.Key, c.creds.Customer)},
		"param":    {param},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domainErrors.Error{Kind: domainErrors.ErrTrackingProvider, Message: "查询失败", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domainErrors.Error{Kind: domainErrors.ErrTrackingProvider, Message: "查询失败", Err: err}
	}
	var data response
	decodeErr := json.Unmarshal(body, &data)

	// a "no data yet" reply stays soft whatever the HTTP status
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && isNoData(data) {
			return &model.TrackingResult{Success: false, Error: noDataMessage, TrackingNumber: trackingNumber}, nil
		}
		c.logger.Error("tracking request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, domainErrors.TrackingProvider(fmt.Sprintf("tracking provider error: %s", resp.Status))
	}
	if decodeErr != nil {
		c.logger.Error("tracking response malformed", slog.String("body", string(body)))
		return nil, &domainErrors.Error{Kind: domainErrors.ErrTrackingProvider, Message: "查询失败", Err: decodeErr}
	}
	c.logger.Debug("tracking response", slog.String("number", trackingNumber), slog.String("body", string(body)))

	return c.normalize(trackingNumber, data)
}

func (c *Kuaidi100Client) normalize(trackingNumber string, data response) (*model.TrackingResult, error) {
	if data.Status != "200" || data.Message != "ok" {
		if isNoData(data) {
			return &model.TrackingResult{Success: false, Error: noDataMessage, TrackingNumber: trackingNumber}, nil
		}
		message := data.Message
		if message == "" {
			message = "查询失败"
		}
		return nil, domainErrors.TrackingProvider(message)
	}

	events := make([]model.TrackingEvent, 0, len(data.Data))
	for _, item := range data.Data {
		events = append(events, model.TrackingEvent{Time: item.Time, Description: item.Context})
	}
	state := model.TrackingState(data.State)
	return &model.TrackingResult{
		Success:        true,
		TrackingNumber: trackingNumber,
		State:          state,
		StateText:      state.Text(),
		Events:         events,
		CarrierName:    c.carrierName,
	}, nil
}

func isNoData(data response) bool {
	return data.ReturnCode == "500" ||
		strings.Contains(data.Message, "查询无结果") ||
		strings.Contains(data.Message, "请隔段时间")
}

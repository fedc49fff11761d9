package tracking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/cherrytrack/internal/domain/errors"
	"github.com/polkiloo/cherrytrack/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, endpoint string) *Kuaidi100Client {
	t.Helper()
	client, err := NewKuaidi100Client(
		Credentials{Customer: "customer", Key: "secret"},
		Options{Endpoint: endpoint, CarrierCode: "shunfeng", CarrierName: "顺丰速运", Timeout: time.Second},
		testLogger(),
	)
	require.NoError(t, err)
	return client
}

func providerStub(t *testing.T, body string, inspect func(url.Values)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		if inspect != nil {
			inspect(r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewKuaidi100ClientValidates(t *testing.T) {
	opts := Options{Endpoint: "http://example.com", CarrierCode: "shunfeng"}
	creds := Credentials{Customer: "c", Key: "k"}

	_, err := NewKuaidi100Client(creds, Options{Endpoint: "://bad", CarrierCode: "shunfeng"}, testLogger())
	assert.Error(t, err)
	_, err = NewKuaidi100Client(creds, Options{Endpoint: "/relative", CarrierCode: "shunfeng"}, testLogger())
	assert.Error(t, err)
	_, err = NewKuaidi100Client(Credentials{}, opts, testLogger())
	assert.Error(t, err)
	_, err = NewKuaidi100Client(creds, Options{Endpoint: "http://example.com"}, testLogger())
	assert.Error(t, err)

	client, err := NewKuaidi100Client(creds, opts, testLogger())
	require.NoError(t, err)
	assert.Zero(t, client.httpClient.Timeout, "no client timeout unless configured")

	opts.Timeout = -time.Second
	client, err = NewKuaidi100Client(creds, opts, testLogger())
	require.NoError(t, err)
	assert.Zero(t, client.httpClient.Timeout)

	opts.Timeout = 3 * time.Second
	client, err = NewKuaidi100Client(creds, opts, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, client.httpClient.Timeout)
}

func TestQuerySignsFormAndNormalizesSuccess(t *testing.T) {
	body := `{"message":"ok","nu":"SF123","ischeck":"1","com":"shunfeng","status":"200","state":"3",
		"data":[{"time":"2024-06-02 10:00:00","context":"已签收"},{"time":"2024-06-01 08:00:00","context":"已揽收"}]}`
	srv := providerStub(t, body, func(form url.Values) {
		param := form.Get("param")
		assert.Equal(t, `{"com":"shunfeng","num":"SF123","phone":"0000"}`, param)
		assert.Equal(t, "customer", form.Get("customer"))
		assert.Equal(t, "EAC30F1D4A7979E1A1017891DB795BCA", form.Get("sign"))
	})

	result, err := newTestClient(t, srv.URL).Query(context.Background(), " SF123 ", "0000")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "SF123", result.TrackingNumber)
	assert.Equal(t, model.TrackingStateDelivered, result.State)
	assert.Equal(t, "已签收", result.StateText)
	assert.Equal(t, "顺丰速运", result.CarrierName)
	require.Len(t, result.Events, 2)
	assert.Equal(t, model.TrackingEvent{Time: "2024-06-02 10:00:00", Description: "已签收"}, result.Events[0])
	assert.True(t, result.Delivered())
}

func TestQueryAcceptsNumericStatusAndUnknownState(t *testing.T) {
	srv := providerStub(t, `{"message":"ok","status":200,"state":9,"data":null}`, nil)

	result, err := newTestClient(t, srv.URL).Query(context.Background(), "SF1", "")
	require.NoError(t, err)
	assert.Equal(t, model.TrackingState("9"), result.State)
	assert.Equal(t, "未知状态", result.StateText)
	assert.Empty(t, result.Events)
}

func TestQueryRejectsBlankNumber(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	_, err := client.Query(context.Background(), "   ", "1234")
	assert.True(t, errors.Is(err, domainErrors.ErrValidation))
}

func TestQueryNoDataIsSoftFailure(t *testing.T) {
	bodies := []string{
		`{"result":false,"returnCode":"500","message":"找不到对应公司"}`,
		`{"result":false,"returnCode":"400","message":"查询无结果，请隔段时间再查"}`,
		`{"status":"201","message":"请隔段时间再查"}`,
	}
	for _, body := range bodies {
		srv := providerStub(t, body, nil)
		result, err := newTestClient(t, srv.URL).Query(context.Background(), "SF404", "1234")
		require.NoError(t, err, body)
		assert.False(t, result.Success)
		assert.Equal(t, "SF404", result.TrackingNumber)
		assert.NotEmpty(t, result.Error)
		assert.False(t, result.Delivered())
	}
}

func TestQueryOtherFailuresAreProviderErrors(t *testing.T) {
	srv := providerStub(t, `{"result":false,"returnCode":"601","message":"key已过期"}`, nil)
	_, err := newTestClient(t, srv.URL).Query(context.Background(), "SF1", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainErrors.ErrTrackingProvider))
	assert.Equal(t, "key已过期", domainErrors.Message(err, ""))

	srv = providerStub(t, `{"status":"400"}`, nil)
	_, err = newTestClient(t, srv.URL).Query(context.Background(), "SF1", "")
	assert.Equal(t, "查询失败", domainErrors.Message(err, ""))

	srv = providerStub(t, `not json`, nil)
	_, err = newTestClient(t, srv.URL).Query(context.Background(), "SF1", "")
	assert.True(t, errors.Is(err, domainErrors.ErrTrackingProvider))
}

func TestQueryHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Query(context.Background(), "SF1", "")
	assert.True(t, errors.Is(err, domainErrors.ErrTrackingProvider))
}

func TestQueryNoDataOnErrorStatusIsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"result":false,"returnCode":"500","message":"查询无结果，请隔段时间再查"}`)
	}))
	defer srv.Close()

	result, err := newTestClient(t, srv.URL).Query(context.Background(), "SF7", "1234")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "SF7", result.TrackingNumber)
	assert.Equal(t, noDataMessage, result.Error)
}

func TestQueryErrorStatusWithOtherJSONIsHard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"returnCode":"601","message":"key已过期"}`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Query(context.Background(), "SF7", "")
	assert.True(t, errors.Is(err, domainErrors.ErrTrackingProvider))
}

func TestQueryTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	_, err := newTestClient(t, endpoint).Query(context.Background(), "SF1", "")
	assert.True(t, errors.Is(err, domainErrors.ErrTrackingProvider))
}

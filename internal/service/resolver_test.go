package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tempizhere/shorty/internal/metrics"
	"github.com/tempizhere/shorty/internal/models"
	"github.com/tempizhere/shorty/internal/qrcode"
	"github.com/tempizhere/shorty/internal/repository"
	"go.uber.org/zap"
)

func newTestResolver(links repository.LinkRepository, quotations repository.QuotationRepository) *Resolver {
	logger := zap.NewNop()
	return NewResolver(
		links,
		NewQuotationPicker(quotations, logger, nil),
		qrcode.NewAdapter(qrcode.NewSVGEncoder()),
		"",
		logger,
		nil,
	)
}

func exampleStore() *repository.MemoryRepository {
	return repository.NewMemoryRepository(
		[]models.ShortLink{{Code: "abc", DestinationURL: "https://example.org"}},
		nil,
	)
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		uri      string
		expected string
	}{
		{"/", ""},
		{"", ""},
		{"/abc", "abc"},
		{"/ABC?redirect=always", "ABC"},
		{"//abc", "/abc"},
		{"/-/anything", "-/anything"},
		{"/a%20b", "a%20b"},
		{"/%61bc", "%61bc"},
		{"http://example.com/abc?redirect=always", "abc"},
		{"/abc#frag", "abc"},
		{"/abc/def", "abc/def"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePath(tt.uri))
		})
	}
}

func TestResolver_FoundShowsConfirmationWithQR(t *testing.T) {
	r := newTestResolver(exampleStore(), nil)
	rc := NewRequestContext("/ABC", "sho.rt", false, "", "")

	d := r.Resolve(context.Background(), rc)

	assert.Equal(t, OutcomeFound, d.Outcome)
	assert.Equal(t, "https://example.org", d.URL)
	assert.Equal(t, "ABC", d.Path)
	assert.False(t, d.AutoRedirect)
	assert.Nil(t, d.Persist)
	require.True(t, strings.HasPrefix(d.QRImage, "data:image/svg+xml;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(d.QRImage, "data:image/svg+xml;base64,"))
	require.NoError(t, err)
	expected, err := qrcode.NewSVGEncoder().Encode("http://sho.rt/ABC")
	require.NoError(t, err)
	assert.Equal(t, expected, raw, "QR should encode the current request URL, not the destination")
}

func TestResolver_CaseInsensitive(t *testing.T) {
	r := newTestResolver(exampleStore(), nil)

	for _, code := range []string{"abc", "ABC", "aBc", "AbC"} {
		d := r.Resolve(context.Background(), NewRequestContext("/"+code, "sho.rt", true, "", ""))
		assert.Equal(t, OutcomeFound, d.Outcome, code)
		assert.Equal(t, "https://example.org", d.URL, code)
	}
}

func TestResolver_NotFound(t *testing.T) {
	r := newTestResolver(exampleStore(), nil)

	d := r.Resolve(context.Background(), NewRequestContext("/xyz", "sho.rt", false, "always", "always"))

	assert.Equal(t, OutcomeNotFound, d.Outcome)
	assert.Equal(t, "xyz", d.Path)
	assert.False(t, d.AutoRedirect)
	assert.Nil(t, d.Persist)
	assert.Empty(t, d.QRImage)
	assert.NoError(t, d.Err)
}

func TestResolver_EmptyPathWithEmptyQuotations(t *testing.T) {
	r := newTestResolver(exampleStore(), repository.NewMemoryRepository(nil, nil))

	d := r.Resolve(context.Background(), NewRequestContext("/", "sho.rt", false, "", ""))

	assert.Equal(t, OutcomeEmpty, d.Outcome)
	assert.Equal(t, "Don't panic", d.Quotation.Quote)
	assert.Equal(t, "–Douglas Adams", d.Quotation.Source)
}

func TestResolver_QueryFlagRedirectsAndPersists(t *testing.T) {
	r := newTestResolver(exampleStore(), nil)

	d := r.Resolve(context.Background(), NewRequestContext("/abc?redirect=always", "sho.rt", false, "always", ""))

	assert.Equal(t, OutcomeFound, d.Outcome)
	assert.True(t, d.AutoRedirect)
	assert.Equal(t, "https://example.org", d.URL)
	assert.Empty(t, d.QRImage, "no page is rendered on redirect")
	require.NotNil(t, d.Persist)
	assert.Equal(t, DefaultCookieName, d.Persist.Name)
	assert.Equal(t, "always", d.Persist.Value)
	assert.Equal(t, 10*365*24*time.Hour, d.Persist.MaxAge)
}

func TestResolver_CookieFlagRedirectsWithoutPersisting(t *testing.T) {
	r := newTestResolver(exampleStore(), nil)

	d := r.Resolve(context.Background(), NewRequestContext("/abc", "sho.rt", false, "", "always"))

	assert.True(t, d.AutoRedirect)
	assert.Nil(t, d.Persist)
}

func TestResolver_ReservedPrefixSkipsStorage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	links := repository.NewMockLinkRepository(ctrl)
	links.EXPECT().Resolve(gomock.Any(), gomock.Any()).Times(0)
	quotations := repository.NewMockQuotationRepository(ctrl)
	quotations.EXPECT().RandomQuotation(gomock.Any()).Times(0)

	r := newTestResolver(links, quotations)
	d := r.Resolve(context.Background(), NewRequestContext("/-/anything", "sho.rt", false, "always", ""))

	assert.Equal(t, OutcomeBlocked, d.Outcome)
	assert.Equal(t, "-/anything", d.Path)
	assert.Equal(t, models.FallbackQuotation(), d.Quotation)
	assert.False(t, d.AutoRedirect)
}

func TestResolver_StorageFault(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storageErr := &repository.StorageError{Op: "resolve", Err: errors.New("database is locked")}
	links := repository.NewMockLinkRepository(ctrl)
	links.EXPECT().Resolve(gomock.Any(), "abc").Return("", false, storageErr)

	r := newTestResolver(links, nil)
	d := r.Resolve(context.Background(), NewRequestContext("/abc", "sho.rt", false, "always", ""))

	assert.Equal(t, OutcomeFaulted, d.Outcome)
	assert.ErrorIs(t, d.Err, storageErr)
	assert.False(t, d.AutoRedirect)
	assert.Nil(t, d.Persist)
}

func TestResolver_QRFailureOmitsImage(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	logger := zap.NewNop()
	r := NewResolver(exampleStore(), NewQuotationPicker(nil, logger, m),
		qrcode.NewAdapter(qrcode.NewSVGEncoder()), "", logger, m)

	// Длинный URI не помещается в символ версии 4
	uri := "/abc?utm=" + strings.Repeat("x", 200)
	d := r.Resolve(context.Background(), NewRequestContext(uri, "sho.rt", false, "", ""))

	assert.Equal(t, OutcomeFound, d.Outcome)
	assert.Equal(t, "https://example.org", d.URL)
	assert.Empty(t, d.QRImage)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QRFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("found")))
}

func TestResolver_OutcomeMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	logger := zap.NewNop()
	r := NewResolver(exampleStore(), NewQuotationPicker(nil, logger, m), nil, "custom", logger, m)

	r.Resolve(context.Background(), NewRequestContext("/", "h", false, "", ""))
	r.Resolve(context.Background(), NewRequestContext("/abc", "h", false, "always", ""))
	r.Resolve(context.Background(), NewRequestContext("/nope", "h", false, "", ""))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("redirect")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("not_found")))
	assert.Equal(t, "custom", r.CookieName())
}

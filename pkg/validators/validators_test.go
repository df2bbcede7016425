package validators

import (
	"bitwise74/event-api/internal/model"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailValidator(t *testing.T) {
	tests := []struct {
		in  string
		err error
	}{
		{"ana@example.com", nil},
		{"", ErrEmailEmpty},
		{"not-an-email", ErrEmailInvalid},
		{"Ana <ana@example.com>", ErrEmailInvalid},
	}

	for _, tt := range tests {
		assert.ErrorIs(t, EmailValidator(tt.in), tt.err, tt.in)
		if tt.err == nil {
			assert.NoError(t, EmailValidator(tt.in))
		}
	}

	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
}

func TestPasswordValidator(t *testing.T) {
	assert.NoError(t, PasswordValidator("Sup3r$ecret"))
	assert.ErrorIs(t, PasswordValidator(""), ErrPasswordEmpty)
	assert.ErrorIs(t, PasswordValidator("Ab1$"), ErrPasswordTooShort)
	assert.ErrorIs(t, PasswordValidator("alllowercase1$"), ErrPasswordWeak)
	assert.ErrorIs(t, PasswordValidator(strings.Repeat("Aa1$", 64)), ErrPasswordTooLong)
}

func TestRegistrationValidators(t *testing.T) {
	assert.NoError(t, FullNameValidator("Ana Lopez"))
	assert.ErrorIs(t, FullNameValidator("   "), ErrFullNameEmpty)
	assert.ErrorIs(t, FullNameValidator(strings.Repeat("a", 256)), ErrFullNameTooLong)

	assert.NoError(t, FormResponsesValidator(map[string]any{}))
	assert.ErrorIs(t, FormResponsesValidator(nil), ErrFormResponsesMissing)

	status, err := PaymentStatusValidator("")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, status)

	status, err = PaymentStatusValidator("success")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentSuccess, status)

	_, err = PaymentStatusValidator("PAID")
	assert.ErrorIs(t, err, ErrPaymentStatusInvalid)
}

func TestEventValidator(t *testing.T) {
	amount := 25.0
	zero := 0.0
	starts := time.Date(2026, 6, 12, 16, 0, 0, 0, time.UTC)
	ends := starts.Add(2 * time.Hour)

	tests := []struct {
		name string
		opts EventOpts
		err  error
	}{
		{"free", EventOpts{Title: "Go Meetup"}, nil},
		{"paid", EventOpts{Title: "Go Meetup", RequiresPayment: true, Amount: &amount}, nil},
		{"with window", EventOpts{Title: "Go Meetup", StartsAt: &starts, EndsAt: &ends}, nil},
		{"form fields", EventOpts{Title: "Go Meetup", FormFields: json.RawMessage(`[{"name":"tshirt"}]`)}, nil},
		{"null form fields", EventOpts{Title: "Go Meetup", FormFields: json.RawMessage(`null`)}, nil},
		{"no title", EventOpts{Title: " "}, ErrTitleEmpty},
		{"long title", EventOpts{Title: strings.Repeat("a", 256)}, ErrTitleTooLong},
		{"paid without amount", EventOpts{Title: "x", RequiresPayment: true}, ErrAmountMissing},
		{"paid for free", EventOpts{Title: "x", RequiresPayment: true, Amount: &zero}, ErrAmountInvalid},
		{"form fields object", EventOpts{Title: "x", FormFields: json.RawMessage(`{"a":1}`)}, ErrFormFieldsFormat},
		{"ends before start", EventOpts{Title: "x", StartsAt: &ends, EndsAt: &starts}, ErrEventWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EventValidator(&tt.opts)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

// formFile builds the *multipart.FileHeader gin would hand to a handler
func formFile(t *testing.T, contentType string, body []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="banner"; filename="banner"`)
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["banner"][0]
}

func TestBannerValidator(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

	t.Run("png", func(t *testing.T) {
		code, f, mime, err := BannerValidator(formFile(t, "image/png", png), 1<<20)
		require.NoError(t, err)
		defer f.Close()

		assert.Zero(t, code)
		assert.Equal(t, "image/png", mime)
	})

	t.Run("missing", func(t *testing.T) {
		code, _, _, err := BannerValidator(nil, 1<<20)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.ErrorIs(t, err, ErrNoBanner)
	})

	t.Run("too large", func(t *testing.T) {
		code, _, _, err := BannerValidator(formFile(t, "image/png", png), 10)
		assert.Equal(t, http.StatusRequestEntityTooLarge, code)
		assert.ErrorIs(t, err, ErrBannerTooLarge)
	})

	t.Run("lying content type", func(t *testing.T) {
		code, _, _, err := BannerValidator(formFile(t, "image/png", []byte("just some text")), 1<<20)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.ErrorIs(t, err, ErrBannerTypeUnsupported)
	})

	t.Run("not an image", func(t *testing.T) {
		code, _, _, err := BannerValidator(formFile(t, "application/pdf", png), 1<<20)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.ErrorIs(t, err, ErrBannerTypeUnsupported)
	})
}

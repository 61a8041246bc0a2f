package linkcodec

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
	vo "github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button/valueobjects"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/errors"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
)

const (
	testOrigin    = "https://pay.example.com"
	testRecipient = "0x1111111111111111111111111111111111111111"
	testToken     = "0x87bdfbe98ba55104701b2f2e999982a317905637"
)

type stubResolver struct {
	buttons map[string]*button.Button
}

func (r *stubResolver) Resolve(_ context.Context, linkID string) (*button.Button, error) {
	b, ok := r.buttons[linkID]
	if !ok {
		return nil, errors.NewNotFoundError("no such link")
	}
	return b, nil
}

func testCodec(resolver Resolver) *Codec {
	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewCodec(resolver, testToken, log)
}

func testButton(t *testing.T, linkID string) *button.Button {
	t.Helper()

	recipient, err := vo.NewAddress(testRecipient)
	require.NoError(t, err)
	amount, err := vo.NewAmount("12.5")
	require.NoError(t, err)
	token, err := vo.NewAddress(testToken)
	require.NoError(t, err)
	usage, err := vo.NewUsagePolicy(vo.UsageTypeUnlimited, 0)
	require.NoError(t, err)
	color, err := vo.NewButtonColor("ff0000")
	require.NoError(t, err)

	b, err := button.NewButton(button.NewButtonParams{
		ID:              linkID,
		Recipient:       recipient,
		Amount:          amount,
		Token:           token,
		PaymentType:     vo.PaymentTypeFixed,
		Usage:           usage,
		ItemName:        "Sticker pack",
		ItemDescription: "Ten holographic stickers",
		ItemImages:      []string{"data:image/png;base64,AAAA"},
		ButtonText:      "Comprar",
		ButtonColor:     color,
	})
	require.NoError(t, err)
	return b
}

func TestEncodeShort(t *testing.T) {
	codec := testCodec(nil)

	url, err := codec.EncodeShort("Ab3xYz", "/p", testOrigin)

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/p/Ab3xYz", url)
}

func TestEncodeShort_RejectsInvalidID(t *testing.T) {
	codec := testCodec(nil)

	_, err := codec.EncodeShort("not-a-valid-id", "/p", testOrigin)

	assert.Error(t, err)
}

func TestEncodeLong_RoundTrip(t *testing.T) {
	codec := testCodec(nil)
	in := PaymentData{
		Recipient:       testRecipient,
		Amount:          "12.5",
		ItemName:        "Sticker pack",
		ItemDescription: "Ten holographic stickers",
		ItemImages:      []string{"data:image/png;base64,AAAA"},
		ButtonText:      "Comprar",
		ButtonColor:     "ff0000",
		Token:           testToken,
	}

	url := codec.EncodeLong(in, testOrigin, "/")
	out, err := codec.Decode(context.Background(), url)

	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, *out)
}

func TestEncodeLong_OmitsHostedImages(t *testing.T) {
	codec := testCodec(nil)
	in := PaymentData{
		Recipient:  testRecipient,
		Amount:     "1",
		Token:      testToken,
		ItemImages: []string{"https://cdn.example.com/a.png", "data:image/png;base64,BBBB"},
	}

	url := codec.EncodeLong(in, testOrigin, "/")
	out, err := codec.Decode(context.Background(), url)

	require.NoError(t, err)
	require.NotNil(t, out)
	// The hosted URL in slot one is dropped; only the inline image survives,
	// in slot two.
	assert.Equal(t, []string{"data:image/png;base64,BBBB"}, out.ItemImages)
}

func TestDecode_LongFormDefaults(t *testing.T) {
	codec := testCodec(nil)
	url := testOrigin + "/?payment&recipient=" + testRecipient + "&amount=3"

	out, err := codec.Decode(context.Background(), url)

	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, button.DefaultButtonText, out.ButtonText)
	assert.Equal(t, vo.DefaultButtonColor, out.ButtonColor)
	assert.Equal(t, testToken, out.Token)
}

func TestDecode_LongFormRejections(t *testing.T) {
	codec := testCodec(nil)

	tests := []struct {
		name string
		url  string
	}{
		{"missing payment marker", testOrigin + "/?recipient=" + testRecipient + "&amount=3"},
		{"missing recipient", testOrigin + "/?payment&amount=3"},
		{"missing amount", testOrigin + "/?payment&recipient=" + testRecipient},
		{"malformed recipient", testOrigin + "/?payment&recipient=0x123&amount=3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := codec.Decode(context.Background(), tt.url)
			require.NoError(t, err)
			assert.Nil(t, out)
		})
	}
}

func TestDecode_ShortLink(t *testing.T) {
	b := testButton(t, "Ab3xYz")
	codec := testCodec(&stubResolver{buttons: map[string]*button.Button{"Ab3xYz": b}})

	out, err := codec.Decode(context.Background(), testOrigin+"/p/Ab3xYz")

	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Ab3xYz", out.LinkID)
	assert.Equal(t, testRecipient, out.Recipient)
	assert.Equal(t, "12.5", out.Amount)
	assert.Equal(t, "Sticker pack", out.ItemName)
}

func TestDecode_ShortLinkUnknownID(t *testing.T) {
	codec := testCodec(&stubResolver{buttons: map[string]*button.Button{}})

	out, err := codec.Decode(context.Background(), testOrigin+"/p/Ab3xYz")

	require.NoError(t, err)
	assert.Nil(t, out)
}

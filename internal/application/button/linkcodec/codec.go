// Package linkcodec maps a button's payment-relevant fields to and from
// shareable URLs. Two transports exist: a short opaque id that dereferences a
// stored record, and a self-contained long URL carrying the whole payload in
// its query string.
package linkcodec

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button"
	vo "github.com/jfscaramazza/cnktplus-paymentbutton/internal/domain/button/valueobjects"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/id"
	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/logger"
)

// paymentMarker is the bare query key that tags a long-form payment link.
const paymentMarker = "payment"

// PaymentData is the payment-relevant field set carried by a link.
type PaymentData struct {
	// LinkID is set when the data was resolved from a short link.
	LinkID          string
	Recipient       string
	Amount          string
	Concept         string
	ItemName        string
	ItemDescription string
	ItemImages      []string
	ButtonText      string
	// ButtonColor is the 6-hex-digit form without the leading '#'.
	ButtonColor string
	Token       string
}

// FromButton projects a stored record onto the link payload.
func FromButton(b *button.Button) PaymentData {
	return PaymentData{
		LinkID:          b.ID(),
		Recipient:       b.Recipient().String(),
		Amount:          b.Amount().String(),
		Concept:         b.Concept(),
		ItemName:        b.ItemName(),
		ItemDescription: b.ItemDescription(),
		ItemImages:      b.ItemImages(),
		ButtonText:      b.ButtonText(),
		ButtonColor:     b.ButtonColor().Hex(),
		Token:           b.Token().String(),
	}
}

// Resolver dereferences a short link id to its stored record.
type Resolver interface {
	Resolve(ctx context.Context, linkID string) (*button.Button, error)
}

// Codec encodes and decodes payment links.
type Codec struct {
	resolver     Resolver
	defaultToken string
	logger       logger.Interface
}

func NewCodec(resolver Resolver, defaultToken string, logger logger.Interface) *Codec {
	return &Codec{
		resolver:     resolver,
		defaultToken: strings.ToLower(defaultToken),
		logger:       logger,
	}
}

// EncodeShort composes a short link: origin + basePath + "/" + linkID.
func (c *Codec) EncodeShort(linkID, basePath, origin string) (string, error) {
	if !id.IsLinkID(linkID) {
		return "", fmt.Errorf("invalid link id: %q", linkID)
	}
	return origin + strings.TrimSuffix(basePath, "/") + "/" + linkID, nil
}

// isInlineImage reports whether the image travels as a data URL. Hosted
// image URLs are omitted from long links: they belong to the record, and the
// long form must stay within practical URL length.
func isInlineImage(img string) bool {
	return strings.HasPrefix(img, "data:")
}

// EncodeLong composes the self-contained fallback URL. Only inline-encoded
// images are carried.
func (c *Codec) EncodeLong(data PaymentData, origin, path string) string {
	params := url.Values{}
	params.Set("recipient", data.Recipient)
	params.Set("amount", data.Amount)
	params.Set("concept", data.Concept)
	params.Set("itemName", data.ItemName)
	params.Set("itemDescription", data.ItemDescription)

	imageKeys := [...]string{"itemImage", "itemImage2", "itemImage3"}
	for i, key := range imageKeys {
		img := ""
		if i < len(data.ItemImages) && isInlineImage(data.ItemImages[i]) {
			img = data.ItemImages[i]
		}
		params.Set(key, img)
	}

	text := data.ButtonText
	if text == "" {
		text = button.DefaultButtonText
	}
	params.Set("text", text)
	params.Set("color", strings.TrimPrefix(data.ButtonColor, "#"))
	params.Set("token", data.Token)

	return origin + path + "?" + paymentMarker + "&" + params.Encode()
}

// Decode turns an incoming URL back into payment data. A last path segment
// matching the short-id format is dereferenced through the resolver; anything
// else is parsed as a long-form link. Returns nil when the URL is not a
// resolvable payment link.
func (c *Codec) Decode(ctx context.Context, rawURL string) (*PaymentData, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, nil
	}

	if linkID := lastPathSegment(u.Path); id.IsLinkID(linkID) {
		return c.decodeShort(ctx, linkID)
	}
	return c.decodeLong(u), nil
}

func lastPathSegment(path string) string {
	path = strings.TrimSuffix(path, "/")
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

func (c *Codec) decodeShort(ctx context.Context, linkID string) (*PaymentData, error) {
	if c.resolver == nil {
		return nil, nil
	}

	b, err := c.resolver.Resolve(ctx, linkID)
	if err != nil {
		c.logger.Debugw("short link did not resolve", "link_id", linkID, "error", err)
		return nil, nil
	}
	if !vo.IsValidAddress(b.Recipient().String()) {
		return nil, nil
	}

	data := FromButton(b)
	return &data, nil
}

func (c *Codec) decodeLong(u *url.URL) *PaymentData {
	q := u.Query()
	if !q.Has(paymentMarker) {
		return nil
	}

	recipient := q.Get("recipient")
	amount := q.Get("amount")
	if recipient == "" || amount == "" || !vo.IsValidAddress(recipient) {
		return nil
	}

	text := q.Get("text")
	if text == "" {
		text = button.DefaultButtonText
	}
	color := q.Get("color")
	if color == "" {
		color = vo.DefaultButtonColor
	}
	token := q.Get("token")
	if token == "" {
		token = c.defaultToken
	}

	var images []string
	for _, key := range [...]string{"itemImage", "itemImage2", "itemImage3"} {
		if img := q.Get(key); img != "" {
			images = append(images, img)
		}
	}

	return &PaymentData{
		Recipient:       recipient,
		Amount:          amount,
		Concept:         q.Get("concept"),
		ItemName:        q.Get("itemName"),
		ItemDescription: q.Get("itemDescription"),
		ItemImages:      images,
		ButtonText:      text,
		ButtonColor:     color,
		Token:           token,
	}
}

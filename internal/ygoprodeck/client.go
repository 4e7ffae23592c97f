// Package ygoprodeck provides a client for the YGOPRODeck v7 catalog API.
// It exposes the four logical lookups the reconciliation pipeline needs:
// set metadata, the rarity list for a set code, the price of a specific
// (code, rarity) printing, and image references.
package ygoprodeck

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/collectorking/collectorking/internal/transport"
	"github.com/collectorking/collectorking/pkg/errors"
	"github.com/collectorking/collectorking/pkg/rarity"
)

const (
	// DefaultBaseURL is the public YGOPRODeck v7 API endpoint.
	DefaultBaseURL = "https://db.ygoprodeck.com/api/v7"

	// DefaultCacheTTL is how long cardinfo payloads are reused. Rarity and
	// price lookups for one set code share a single request within the TTL.
	DefaultCacheTTL = 5 * time.Minute

	service = "ygoprodeck"
)

// MaxImageRefs is the maximum number of image locators returned per card.
const MaxImageRefs = 3

// Client implements the catalog service boundary against YGOPRODeck.
type Client struct {
	baseURL   string
	transport *transport.Client
	cache     *gocache.Cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTransport replaces the underlying transport client.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithCacheTTL sets the cardinfo payload cache TTL. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.cache = nil
			return
		}
		c.cache = gocache.New(ttl, 2*ttl)
	}
}

// New creates a YGOPRODeck client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		transport: transport.New(),
		cache:     gocache.New(DefaultCacheTTL, 2*DefaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetInfo looks up set-level metadata for a printed set code: card name, set
// name, default rarity, and default price.
func (c *Client) SetInfo(ctx context.Context, setCode string) (*SetMeta, error) {
	if strings.TrimSpace(setCode) == "" {
		return nil, &errors.ValidationError{Field: "set_code", Message: "cannot be empty"}
	}

	endpoint := fmt.Sprintf("%s/cardsetsinfo.php?setcode=%s", c.baseURL, url.QueryEscape(setCode))
	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, c.wrapTransport(endpoint, err)
	}

	// The endpoint answers with a single object, or an array when the code
	// matches several printings.
	var raw json.RawMessage
	if err := transport.DecodeResponse(service, resp, &raw); err != nil {
		return nil, c.mapAPIError(setCode, err)
	}

	var infos []setInfoResponse
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &infos); err != nil {
			return nil, errors.WrapParse("json", "cardsetsinfo response", err)
		}
	} else {
		var single setInfoResponse
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, errors.WrapParse("json", "cardsetsinfo response", err)
		}
		infos = []setInfoResponse{single}
	}

	if len(infos) == 0 || infos[0].SetCode == "" {
		return nil, errors.NewNotFoundError("set code", setCode)
	}

	info := infos[0]
	return &SetMeta{
		ID:      info.ID,
		Name:    info.Name,
		SetName: info.SetName,
		Rarity:  info.SetRarity,
		Price:   parsePrice(info.SetPrice),
	}, nil
}

// Rarities returns the distinct rarities that exist for a printed set code,
// in rank order. An empty (non-nil) slice means the code exists but carries
// no rarity information, which is distinct from ErrNotFound.
func (c *Client) Rarities(ctx context.Context, setCode string) ([]string, error) {
	payload, err := c.cardInfo(ctx, setCode)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, card := range payload.Data {
		for _, cs := range card.CardSets {
			if !strings.EqualFold(strings.TrimSpace(cs.SetCode), strings.TrimSpace(setCode)) {
				continue
			}
			if r := strings.TrimSpace(cs.SetRarity); r != "" {
				seen[r] = struct{}{}
			}
		}
	}

	rarities := make([]string, 0, len(seen))
	for r := range seen {
		rarities = append(rarities, r)
	}
	rarity.SortCandidates(rarities)
	return rarities, nil
}

// Price returns the catalog price for a specific (set code, rarity)
// printing, or ErrNotFound when the combination carries no price.
func (c *Client) Price(ctx context.Context, setCode, rarityName string) (float64, error) {
	payload, err := c.cardInfo(ctx, setCode)
	if err != nil {
		return 0, err
	}

	for _, card := range payload.Data {
		for _, cs := range card.CardSets {
			if !strings.EqualFold(strings.TrimSpace(cs.SetCode), strings.TrimSpace(setCode)) {
				continue
			}
			if !strings.EqualFold(strings.TrimSpace(cs.SetRarity), strings.TrimSpace(rarityName)) {
				continue
			}
			if p := parsePrice(cs.SetPrice); p != nil {
				return *p, nil
			}
		}
	}
	return 0, errors.NewNotFoundError("price for", setCode+" "+rarityName)
}

// ImageRefs returns up to MaxImageRefs remote image locators for a card id.
func (c *Client) ImageRefs(ctx context.Context, cardID int64) ([]string, error) {
	endpoint := fmt.Sprintf("%s/cardinfo.php?id=%d", c.baseURL, cardID)
	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, c.wrapTransport(endpoint, err)
	}

	var payload cardInfoResponse
	if err := transport.DecodeResponse(service, resp, &payload); err != nil {
		return nil, c.mapAPIError(strconv.FormatInt(cardID, 10), err)
	}
	if len(payload.Data) == 0 {
		return nil, errors.NewNotFoundError("card id", strconv.FormatInt(cardID, 10))
	}

	refs := make([]string, 0, MaxImageRefs)
	for _, img := range payload.Data[0].CardImages {
		u := img.ImageURL
		if u == "" {
			u = img.ImageURLSmall
		}
		if u == "" {
			continue
		}
		refs = append(refs, u)
		if len(refs) == MaxImageRefs {
			break
		}
	}
	return refs, nil
}

// cardInfo fetches (or reuses) the full cardinfo payload for a set code.
func (c *Client) cardInfo(ctx context.Context, setCode string) (*cardInfoResponse, error) {
	if strings.TrimSpace(setCode) == "" {
		return nil, &errors.ValidationError{Field: "set_code", Message: "cannot be empty"}
	}

	key := strings.ToUpper(strings.TrimSpace(setCode))
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			return cached.(*cardInfoResponse), nil
		}
	}

	endpoint := fmt.Sprintf("%s/cardinfo.php?setcode=%s", c.baseURL, url.QueryEscape(setCode))
	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, c.wrapTransport(endpoint, err)
	}

	var payload cardInfoResponse
	if err := transport.DecodeResponse(service, resp, &payload); err != nil {
		return nil, c.mapAPIError(setCode, err)
	}
	if len(payload.Data) == 0 {
		return nil, errors.NewNotFoundError("set code", setCode)
	}

	if c.cache != nil {
		c.cache.Set(key, &payload, gocache.DefaultExpiration)
	}
	return &payload, nil
}

// wrapTransport converts transport-level failures into the taxonomy:
// cancellation stays cancellation, everything else is the catalog being
// unreachable.
func (c *Client) wrapTransport(endpoint string, err error) error {
	if errors.IsCanceled(err) || stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.ErrCanceled
	}
	return &errors.APIError{
		Service:  service,
		Endpoint: endpoint,
		Message:  "request failed",
		Err:      err,
	}
}

// mapAPIError maps status-bearing API errors: the catalog answers 400 as
// well as 404 for unknown codes, both of which mean not-found here.
func (c *Client) mapAPIError(id string, err error) error {
	if apiErr := asAPIError(err); apiErr != nil {
		if apiErr.StatusCode == 400 || apiErr.StatusCode == 404 {
			return errors.NewNotFoundError("set code", id)
		}
	}
	return err
}

func asAPIError(err error) *errors.APIError {
	var apiErr *errors.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// parsePrice parses the API's decimal price strings. Empty or unparsable
// strings mean no price; negative values are rejected the same way.
func parsePrice(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil || p < 0 {
		return nil
	}
	return &p
}

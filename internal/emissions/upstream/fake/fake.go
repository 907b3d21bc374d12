// Package fake provides an in-memory upstream.Client with canned records,
// injectable failures and per-operation call counters.
package fake

import (
	"context"
	"strings"
	"sync"

	"github.com/yungbote/emission-report/internal/emissions/domain"
	"github.com/yungbote/emission-report/internal/emissions/upstream"
)

type Client struct {
	mu sync.Mutex

	Records []domain.EmissionRecord

	// Err, when set, is returned by every operation.
	Err error

	// Absent makes every fetch behave as if the upstream sent no body.
	Absent   bool
	Policies upstream.Policies

	calls map[string]int
}

var _ upstream.Client = (*Client)(nil)

func New(records ...domain.EmissionRecord) *Client {
	return &Client{
		Records:  records,
		Policies: upstream.DefaultPolicies(),
		calls:    map[string]int{},
	}
}

// Calls reports how many times op ("FetchAll", "Create", ...) was invoked.
func (c *Client) Calls(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[op]
}

// TotalCalls sums Calls over every operation.
func (c *Client) TotalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

func (c *Client) record(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[op]++
}

func (c *Client) FetchAll(ctx context.Context) ([]domain.EmissionRecord, error) {
	c.record("FetchAll")
	return c.filter(ctx, c.Policies.All, upstream.MsgAllNotFound, func(domain.EmissionRecord) bool { return true })
}

func (c *Client) FetchByMaterialNo(ctx context.Context, materialNo string) ([]domain.EmissionRecord, error) {
	c.record("FetchByMaterialNo")
	return c.filter(ctx, c.Policies.Material, upstream.MsgMaterialNotFound, func(r domain.EmissionRecord) bool {
		return r.MaterialNumber == materialNo
	})
}

func (c *Client) FetchByCountryCode(ctx context.Context, isoCode string) ([]domain.EmissionRecord, error) {
	c.record("FetchByCountryCode")
	return c.filter(ctx, c.Policies.Country, upstream.MsgCountryNotFound, func(r domain.EmissionRecord) bool {
		return strings.EqualFold(r.CountryCode, isoCode)
	})
}

func (c *Client) Create(ctx context.Context, rec domain.EmissionRecord) (*domain.EmissionRecord, error) {
	c.record("Create")
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.Records = append(c.Records, rec)
	c.mu.Unlock()
	return &rec, nil
}

func (c *Client) Update(ctx context.Context, rec domain.EmissionRecord) (*domain.EmissionRecord, error) {
	c.record("Update")
	if strings.TrimSpace(rec.MaterialNumber) == "" {
		return nil, domain.NewValidationError(upstream.MsgUpdateMaterialMissing)
	}
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.Records {
		if c.Records[i].MaterialNumber == rec.MaterialNumber {
			c.Records[i] = rec
			return &rec, nil
		}
	}
	return nil, nil
}

func (c *Client) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Err
}

func (c *Client) filter(ctx context.Context, policy upstream.EmptyBodyPolicy, notFoundMsg string, keep func(domain.EmissionRecord) bool) ([]domain.EmissionRecord, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	if c.Absent {
		return policy.Resolve(notFoundMsg)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.EmissionRecord, 0, len(c.Records))
	for _, r := range c.Records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

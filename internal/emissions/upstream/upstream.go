package upstream

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/emission-report/internal/emissions/domain"
)

// Client fetches and mutates emission records held by the upstream store.
type Client interface {
	FetchAll(ctx context.Context) ([]domain.EmissionRecord, error)
	FetchByMaterialNo(ctx context.Context, materialNo string) ([]domain.EmissionRecord, error)
	FetchByCountryCode(ctx context.Context, isoCode string) ([]domain.EmissionRecord, error)

	// Create and Update return nil without error when the upstream rejects the write.
	Create(ctx context.Context, rec domain.EmissionRecord) (*domain.EmissionRecord, error)
	Update(ctx context.Context, rec domain.EmissionRecord) (*domain.EmissionRecord, error)
}

// EmptyBodyPolicy decides what an absent response body means for a fetch.
type EmptyBodyPolicy string

const (
	EmptyAsNoRecords EmptyBodyPolicy = "empty"
	EmptyAsNotFound  EmptyBodyPolicy = "not_found"
)

func ParseEmptyBodyPolicy(s string) (EmptyBodyPolicy, error) {
	switch p := EmptyBodyPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case EmptyAsNoRecords, EmptyAsNotFound:
		return p, nil
	default:
		return "", fmt.Errorf("unknown empty body policy %q", s)
	}
}

// Policies holds the empty-body policy of each fetch. The defaults keep the
// long-standing asymmetry: only the material lookup treats absence as an error.
type Policies struct {
	All      EmptyBodyPolicy
	Country  EmptyBodyPolicy
	Material EmptyBodyPolicy
}

func DefaultPolicies() Policies {
	return Policies{
		All:      EmptyAsNoRecords,
		Country:  EmptyAsNoRecords,
		Material: EmptyAsNotFound,
	}
}

const (
	MsgMaterialNotFound      = "No emission data found for the provided Material Number."
	MsgCountryNotFound       = "No emission data found for the provided Country Code."
	MsgAllNotFound           = "No emission data available."
	MsgUpdateMaterialMissing = "Material_Number is required for update."
)

// Resolve applies p to an absent body.
func (p EmptyBodyPolicy) Resolve(notFoundMsg string) ([]domain.EmissionRecord, error) {
	if p == EmptyAsNotFound {
		return nil, domain.NewNotFoundError(notFoundMsg)
	}
	return []domain.EmissionRecord{}, nil
}

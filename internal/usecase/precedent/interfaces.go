package precedent

import (
	"context"

	"github.com/lexyai/drafter/internal/entity"
)

// LookupFunc resolves the outline of a contract type. A nil outline with a
// nil error means no precedent exists for it.
type LookupFunc func(ctx context.Context, contractTypeID, contractTypeName string) (*entity.PrecedentOutline, error)

// CatalogStore persists contract types and ingested precedents.
type CatalogStore interface {
	ListContractTypes(ctx context.Context) ([]entity.ContractType, error)
	UpsertContractType(ctx context.Context, contractType entity.ContractType) (entity.ContractType, error)
	SavePrecedent(ctx context.Context, doc entity.PrecedentDocument, rows []entity.PrecedentSectionRow) (entity.PrecedentDocument, error)
}

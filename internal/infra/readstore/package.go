package readstore

import (
	"context"

	"studio-booking/internal/infra/db"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type PackageReadStore struct {
	dbtx db.DBTX
}

func NewPackageReadStore(dbtx db.DBTX) *PackageReadStore {
	return &PackageReadStore{dbtx: dbtx}
}

func (s *PackageReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.PackageSnapshot, error) {
	const q = `
		SELECT id, class_type_group, class_count, is_personal, is_single_class
		FROM packages
		WHERE id = $1`

	var snap shared.PackageSnapshot
	err := s.dbtx.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.Group, &snap.ClassCount, &snap.IsPersonal, &snap.IsSingleClass,
	)
	if err != nil {
		return nil, wrapReadErr("failed to read package", err)
	}
	return &snap, nil
}

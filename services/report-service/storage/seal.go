package storage

import (
	"fmt"
	"strings"

	"ghostnet-reporting-system/pkg/security"
	"ghostnet-reporting-system/services/report-service/models"
)

const sealedPrefix = "gcm:"

// sealContact encrypts the personal contact fields of a non-anonymous
// report before it is persisted server-side. Anonymous reports hold
// only sentinels and are stored untouched.
func sealContact(r models.Report) (models.Report, error) {
	if r.Anonymous {
		return r, nil
	}
	var err error
	if r.Name, err = sealValue(r.Name); err != nil {
		return r, err
	}
	if r.Phone, err = sealValue(r.Phone); err != nil {
		return r, err
	}
	if r.Email, err = sealValue(r.Email); err != nil {
		return r, err
	}
	return r, nil
}

// openContact reverses sealContact on load. Values without the sealed
// prefix pass through, so stores written before sealing was introduced
// remain readable.
func openContact(r models.Report) (models.Report, error) {
	var err error
	if r.Name, err = openValue(r.Name); err != nil {
		return r, err
	}
	if r.Phone, err = openValue(r.Phone); err != nil {
		return r, err
	}
	if r.Email, err = openValue(r.Email); err != nil {
		return r, err
	}
	return r, nil
}

func sealValue(v string) (string, error) {
	enc, err := security.EncryptString(v)
	if err != nil {
		return "", fmt.Errorf("failed to seal contact field: %w", err)
	}
	return sealedPrefix + enc, nil
}

func openValue(v string) (string, error) {
	if !strings.HasPrefix(v, sealedPrefix) {
		return v, nil
	}
	plain, err := security.DecryptString(strings.TrimPrefix(v, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("failed to open contact field: %w", err)
	}
	return plain, nil
}

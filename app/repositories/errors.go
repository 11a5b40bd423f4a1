package repositories

import (
	"errors"
	"fmt"

	"github.com/nomfood/storefront/pkg/apperr"
)

// wrapErr classifies driver errors and annotates the rest.
// Driver error structs hold slices, so they are never compared with ==.
func wrapErr(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	classified := apperr.FromMongo(err, notFoundMsg)
	var ae *apperr.Error
	if errors.As(classified, &ae) {
		return classified
	}
	return fmt.Errorf("repositories: %w", err)
}

package organization

import "errors"

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	// ErrNoFiscalYear is a configuration error: no consistent monthly
	// window can be computed without a fiscal year, so the operation
	// fails outright instead of defaulting.
	ErrNoFiscalYear = errors.New("fiscal year is not defined")
)

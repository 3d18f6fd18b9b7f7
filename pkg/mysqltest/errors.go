package mysqltest

import "fmt"

// ProvisioningError reports a failed user or database setup statement.
// The underlying server instance has already been torn down when this
// error surfaces.
type ProvisioningError struct {
	// Stmt is the SQL statement that failed, if one was reached.
	Stmt string
	Err  error
}

func (e *ProvisioningError) Error() string {
	if e.Stmt == "" {
		return fmt.Sprintf("provisioning failed: %v", e.Err)
	}
	return fmt.Sprintf("provisioning failed at %q: %v", e.Stmt, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

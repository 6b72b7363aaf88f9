package entitlement

import (
	"errors"
	"fmt"
)

// ConfigurationError marks a catalog fault the engine cannot work around,
// such as a missing default tier. It is fatal and never replaced by a
// fabricated tier.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("entitlement configuration fault: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("entitlement configuration fault: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func IsConfigurationError(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}

// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package errors

import (
	stdliberrors "errors"
	"fmt"
)

var (
	ErrUnsupported = stdliberrors.ErrUnsupported

	// ErrInvalidCapacity is returned when a buffer or tracker is asked for a
	// non-positive number of slots.
	ErrInvalidCapacity = stdliberrors.New("capacity must be greater than 0")

	As     = stdliberrors.As
	Is     = stdliberrors.Is
	Join   = stdliberrors.Join
	New    = stdliberrors.New
	Unwrap = stdliberrors.Unwrap
)

// ConfigurationError is returned when a component's configuration is invalid.
type ConfigurationError struct {
	Component string
	Err       error
}

var _ error = (*ConfigurationError)(nil)

func NewConfigurationError(component string, err error) *ConfigurationError {
	return &ConfigurationError{Component: component, Err: err}
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("configuration error: %s", e.Component)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Component, e.Err.Error())
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err or anything it wraps is a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var cerr *ConfigurationError
	return As(err, &cerr)
}

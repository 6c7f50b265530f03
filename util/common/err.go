// Package common holds error helpers shared by the LOGI services.
package common

import (
	"errors"
	"fmt"

	"github.com/Sreehari-M-dev/LOGI-tests/logger"
	"go.uber.org/multierr"
)

func NewErrorf(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	return errors.New(msg)
}

// NewError joins its operands with spaces, like fmt.Sprint with separators.
func NewError(a ...any) error {
	msg := fmt.Sprintln(a...)
	return errors.New(msg[:len(msg)-1])
}

// Combine merges shutdown errors; nil operands are dropped.
func Combine(errs ...error) error {
	return multierr.Combine(errs...)
}

func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, "panic:", panicErr)
		}
	}
	return panicErr
}

package errors

import (
	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
)

// ErrorBuilder assembles an error from a message, a user facing hint and
// reportable details. It is not an error itself: finish every chain with Mark.
type ErrorBuilder struct {
	err     error
	details map[string]any
}

func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.New(msg)}
}

func NewErrorf(format string, args ...any) *ErrorBuilder {
	return &ErrorBuilder{err: errors.Newf(format, args...)}
}

// WithError starts a chain from an existing error, keeping its marks
func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// WithMessage prefixes the internal message. It is never shown to subscribers.
func (b *ErrorBuilder) WithMessage(msg string) *ErrorBuilder {
	b.err = errors.WithMessage(b.err, msg)
	return b
}

// WithHint sets the message rendered in the error record
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.err = errors.WithHintf(b.err, format, args...)
	return b
}

// WithReportableDetails adds fields to the details of the error record.
// Repeated calls merge, later keys win.
func (b *ErrorBuilder) WithReportableDetails(details map[string]any) *ErrorBuilder {
	if b.details == nil {
		b.details = make(map[string]any, len(details))
	}
	for k, v := range details {
		b.details[k] = v
	}
	return b
}

// Mark classifies the error with a sentinel and returns it
func (b *ErrorBuilder) Mark(reference error) error {
	return errors.Mark(b.build(), reference)
}

// Error returns the built error without a classification
func (b *ErrorBuilder) Error() error {
	return b.build()
}

func (b *ErrorBuilder) build() error {
	if len(b.details) == 0 {
		return b.err
	}

	marshaled, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(b.details)
	if err != nil {
		return b.err
	}
	return errors.WithSafeDetails(b.err, "__json__:%s", errors.Safe(string(marshaled)))
}
